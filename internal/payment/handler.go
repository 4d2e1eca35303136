package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studiobook/internal/api"
	"studiobook/internal/email"
	"studiobook/internal/logger"
	"studiobook/internal/membership"
	"studiobook/internal/plan"
)

// Handler is the intake surface for normalized payment-success events. The
// gateway adapter retries delivery, so everything behind this endpoint must
// tolerate the same event arriving twice.
type Handler struct {
	planPreparer        *plan.Preparer
	planCommitter       *plan.Committer
	membershipPreparer  *membership.Preparer
	membershipCommitter *membership.Committer
	email               *email.Service
}

func NewHandler(
	planPreparer *plan.Preparer,
	planCommitter *plan.Committer,
	membershipPreparer *membership.Preparer,
	membershipCommitter *membership.Committer,
	emailService *email.Service,
) *Handler {
	return &Handler{
		planPreparer:        planPreparer,
		planCommitter:       planCommitter,
		membershipPreparer:  membershipPreparer,
		membershipCommitter: membershipCommitter,
		email:               emailService,
	}
}

// HandleEvent godoc
// @Summary      Ingest a payment-success event
// @Description  Turns a confirmed gateway payment into a plan purchase or membership. Redelivery of the same payment_intent_ref is a no-op.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        event  body      Event  true  "Normalized payment event"
// @Success      200    {object}  gin.H
// @Success      201    {object}  gin.H
// @Failure      400    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /payments/events [post]
func (h *Handler) HandleEvent(c *gin.Context) {
	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	correlationID := uuid.NewString()
	logger.Info("Payment event received",
		"correlation_id", correlationID,
		"provider_event_id", event.ProviderEventID,
		"intent_ref", event.PaymentIntentRef,
	)

	switch {
	case event.Metadata.PlanTypeID != nil:
		h.handlePlanEvent(c, &event, correlationID)
	case event.Metadata.MembershipTypeID != nil:
		h.handleMembershipEvent(c, &event, correlationID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event metadata names neither a plan type nor a membership type"})
	}
}

func (h *Handler) handlePlanEvent(c *gin.Context, event *Event, correlationID string) {
	prepared, err := h.planPreparer.Prepare(c.Request.Context(), plan.PrepareInput{
		ClientID:     event.Metadata.ClientID,
		PlanTypeID:   *event.Metadata.PlanTypeID,
		Modality:     event.Metadata.Modality,
		CourseID:     event.Metadata.CourseID,
		StartDateISO: event.Metadata.StartISO,
		Notes:        event.Metadata.Notes,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if err := VerifyAmount(event, prepared.PlanType().PriceCents); err != nil {
		logger.Error("Payment amount mismatch", "correlation_id", correlationID, "intent_ref", event.PaymentIntentRef)
		api.RespondError(c, err)
		return
	}

	ref := event.PaymentIntentRef
	result, err := h.planCommitter.Commit(c.Request.Context(), prepared, plan.PaymentDetails{
		Status:      event.PaymentStatus,
		ProviderRef: &ref,
		PaidAt:      event.CreatedAt(),
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if !result.Deduplicated {
		cl := prepared.Client()
		pt := prepared.PlanType()
		if err := h.email.SendPlanPurchaseConfirmation(c.Request.Context(), cl.Email, cl.Name, pt.Name, prepared.InitialClasses(), prepared.ExpiresAt()); err != nil {
			logger.Errorf("Failed to queue purchase confirmation: %v", err)
		}
		if len(result.Bookings) > 0 {
			if err := h.email.SendBookingBlockConfirmation(c.Request.Context(), cl.Email, cl.Name, pt.Name, prepared.StartDate(), len(result.Bookings)); err != nil {
				logger.Errorf("Failed to queue booking block confirmation: %v", err)
			}
		}
	}

	status := http.StatusCreated
	if result.Deduplicated {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"purchase_id": result.PurchaseID, "deduplicated": result.Deduplicated, "snapshot": result.Snapshot})
}

func (h *Handler) handleMembershipEvent(c *gin.Context, event *Event, correlationID string) {
	prepared, err := h.membershipPreparer.Prepare(c.Request.Context(), membership.PrepareInput{
		ClientID:         event.Metadata.ClientID,
		MembershipTypeID: *event.Metadata.MembershipTypeID,
		TermYears:        event.Metadata.TermYears,
		StartDateISO:     event.Metadata.StartISO,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if err := VerifyAmount(event, prepared.AmountCents()); err != nil {
		logger.Error("Payment amount mismatch", "correlation_id", correlationID, "intent_ref", event.PaymentIntentRef)
		api.RespondError(c, err)
		return
	}

	ref := event.PaymentIntentRef
	result, err := h.membershipCommitter.Commit(c.Request.Context(), prepared, membership.PaymentDetails{
		Status:      event.PaymentStatus,
		ProviderRef: &ref,
		PaidAt:      event.CreatedAt(),
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if !result.Deduplicated {
		cl := prepared.Client()
		if err := h.email.SendMembershipConfirmation(c.Request.Context(), cl.Email, cl.Name, prepared.MembershipType().Name, prepared.EndDate()); err != nil {
			logger.Errorf("Failed to queue membership confirmation: %v", err)
		}
	}

	status := http.StatusCreated
	if result.Deduplicated {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"membership_id": result.MembershipID, "deduplicated": result.Deduplicated, "snapshot": result.Snapshot})
}
