package plan

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
	Notes       string     `json:"notes"`
	PaidAt      *time.Time `json:"paid_at"`
}

type PurchaseRequest struct {
	ClientID   int            `json:"client_id" binding:"required"`
	PlanTypeID int            `json:"plan_type_id" binding:"required"`
	Modality   string         `json:"modality" binding:"required"`
	CourseID   *int           `json:"course_id"`
	StartDate  string         `json:"start_date"`
	Notes      string         `json:"notes"`
	Payment    PaymentRequest `json:"payment" binding:"required"`
}

// PurchasePlan godoc
// @Summary      Record a plan purchase
// @Description  Validates and commits a plan purchase for a client, auto-booking course sessions for fixed-modality plans.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request  body      PurchaseRequest  true  "Purchase payload"
// @Success      201      {object}  CommitResult
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /purchases/plans [post]
func (h *Handler) PurchasePlan(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prepared, err := h.preparer.Prepare(c.Request.Context(), PrepareInput{
		ClientID:     req.ClientID,
		PlanTypeID:   req.PlanTypeID,
		Modality:     req.Modality,
		CourseID:     req.CourseID,
		StartDateISO: req.StartDate,
		Notes:        req.Notes,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	pay := PaymentDetails{
		Status:      req.Payment.Status,
		ProviderRef: req.Payment.ProviderRef,
		Notes:       req.Payment.Notes,
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
