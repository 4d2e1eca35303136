package plan

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
	"studiobook/internal/booking"
	"studiobook/internal/client"
	"studiobook/internal/db"
	"studiobook/internal/logger"
	"studiobook/internal/metrics"
)

const PaymentStatusSuccess = "SUCCESS"

// PaymentDetails carries the payment facts recorded alongside the
// purchase. ProviderRef is the gateway's idempotency key.
type PaymentDetails struct {
	Status      string
	ProviderRef *string
	Notes       string
	PaidAt      time.Time
}

type CommitResult struct {
	PurchaseID   int               `json:"purchase_id"`
	Deduplicated bool              `json:"deduplicated"`
	Bookings     []booking.Booking `json:"bookings,omitempty"`
	Snapshot     *client.Snapshot  `json:"snapshot"`
}

// BlockBooker reserves the fixed-plan session block inside the purchase
// transaction.
type BlockBooker interface {
	BookBlock(ctx context.Context, tx *sqlx.Tx, req booking.BlockRequest) ([]booking.Booking, error)
}

type Committer struct {
	plans   Repository
	clients client.Repository
	booker  BlockBooker
	tx      db.TxRunner
}

func NewCommitter(plans Repository, clients client.Repository, booker BlockBooker, tx db.TxRunner) *Committer {
	return &Committer{plans: plans, clients: clients, booker: booker, tx: tx}
}

// Commit persists a prepared plan purchase and, for fixed modality, the
// auto-booked session block. The purchase and its bookings share one
// transaction, so a failed block leaves no purchase behind. The payment
// insert runs after the transaction; its failure is reported as a
// PartialFailure because the entitlement is already durable.
func (c *Committer) Commit(ctx context.Context, prepared *PreparedPurchase, pay PaymentDetails) (*CommitResult, error) {
	if prepared == nil {
		return nil, api.Validation("missing prepared purchase")
	}

	if pay.ProviderRef != nil && *pay.ProviderRef != "" {
		existing, err := c.plans.FindPaymentByProviderRef(ctx, *pay.ProviderRef)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logger.Infof("Duplicate payment delivery for provider ref %s, purchase %d", *pay.ProviderRef, existing.PurchaseID)
			metrics.RecordDuplicatePaymentDelivery()
			snapshot, err := c.clients.GetSnapshot(ctx, prepared.ClientID())
			if err != nil {
				return nil, err
			}
			return &CommitResult{PurchaseID: existing.PurchaseID, Deduplicated: true, Snapshot: snapshot}, nil
		}
	}

	var (
		inserted *Purchase
		bookings []booking.Booking
	)
	err := c.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		inserted, err = c.plans.InsertPurchase(ctx, tx, &Purchase{
			ClientID:         prepared.ClientID(),
			PlanTypeID:       prepared.PlanType().ID,
			Status:           StatusActive,
			StartDate:        prepared.StartDate(),
			ExpiresAt:        prepared.ExpiresAt(),
			InitialClasses:   prepared.InitialClasses(),
			RemainingClasses: prepared.InitialClasses(),
			Modality:         prepared.Modality(),
			Notes:            prepared.Notes(),
		})
		if err != nil {
			return err
		}

		if prepared.Modality() == ModalityFixed {
			bookings, err = c.booker.BookBlock(ctx, tx, booking.BlockRequest{
				PlanPurchaseID: inserted.ID,
				ClientID:       prepared.ClientID(),
				ClassCount:     *prepared.InitialClasses(),
				CourseID:       *prepared.CourseID(),
				StartDate:      prepared.StartDate(),
			})
			if err != nil {
				// Rolling back drops the purchase too; no entitlement
				// is left without its bookings.
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	paidAt := pay.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	_, err = c.plans.InsertPayment(ctx, &Payment{
		PurchaseID:  inserted.ID,
		AmountCents: prepared.PlanType().PriceCents,
		Currency:    prepared.PlanType().Currency,
		Status:      pay.Status,
		ProviderRef: pay.ProviderRef,
		Notes:       pay.Notes,
		PaidAt:      paidAt,
	})
	if err != nil {
		return nil, api.PartialFailure("plan purchase created, payment not recorded", err)
	}

	snapshot, err := c.clients.GetSnapshot(ctx, prepared.ClientID())
	if err != nil {
		return nil, err
	}

	metrics.RecordPlanPurchase(string(prepared.Modality()))
	return &CommitResult{PurchaseID: inserted.ID, Bookings: bookings, Snapshot: snapshot}, nil
}
