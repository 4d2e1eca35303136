package membership

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studiobook/internal/api"
)

type Handler struct {
	preparer  *Preparer
	committer *Committer
}

func NewHandler(preparer *Preparer, committer *Committer) *Handler {
	return &Handler{preparer: preparer, committer: committer}
}

type PaymentRequest struct {
	Status      string     `json:"status" binding:"required"`
	ProviderRef *string    `json:"provider_ref"`
	PaidAt      *time.Time `json:"paid_at"`
}

type PurchaseRequest struct {
	ClientID         int            `json:"client_id" binding:"required"`
	MembershipTypeID int            `json:"membership_type_id" binding:"required"`
	TermYears        float64        `json:"term_years"`
	StartDate        string         `json:"start_date"`
	Payment          PaymentRequest `json:"payment" binding:"required"`
}

// PurchaseMembership godoc
// @Summary      Record a membership purchase
// @Description  Validates and commits a membership purchase; any prior active membership is deactivated.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request  body      PurchaseRequest  true  "Purchase payload"
// @Success      201      {object}  CommitResult
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /purchases/memberships [post]
func (h *Handler) PurchaseMembership(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prepared, err := h.preparer.Prepare(c.Request.Context(), PrepareInput{
		ClientID:         req.ClientID,
		MembershipTypeID: req.MembershipTypeID,
		TermYears:        req.TermYears,
		StartDateISO:     req.StartDate,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	pay := PaymentDetails{
		Status:      req.Payment.Status,
		ProviderRef: req.Payment.ProviderRef,
	}
	if req.Payment.PaidAt != nil {
		pay.PaidAt = *req.Payment.PaidAt
	}

	result, err := h.committer.Commit(c.Request.Context(), prepared, pay)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Deduplicated {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
