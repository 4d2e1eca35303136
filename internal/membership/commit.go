package membership

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
	"studiobook/internal/client"
	"studiobook/internal/db"
	"studiobook/internal/logger"
	"studiobook/internal/metrics"
)

const PaymentStatusSuccess = "SUCCESS"

// PaymentDetails carries the payment facts recorded alongside the
// membership. ProviderRef is the gateway's idempotency key.
type PaymentDetails struct {
	Status      string
	ProviderRef *string
	PaidAt      time.Time
}

type CommitResult struct {
	MembershipID int              `json:"membership_id"`
	Deduplicated bool             `json:"deduplicated"`
	Snapshot     *client.Snapshot `json:"snapshot,omitempty"`
}

type Committer struct {
	memberships Repository
	clients     client.Repository
	tx          db.TxRunner
}

func NewCommitter(memberships Repository, clients client.Repository, tx db.TxRunner) *Committer {
	return &Committer{memberships: memberships, clients: clients, tx: tx}
}

// Commit persists a prepared membership purchase. Replaying the same
// providerRef returns the original membership without writing.
func (c *Committer) Commit(ctx context.Context, prepared *PreparedPurchase, pay PaymentDetails) (*CommitResult, error) {
	if prepared == nil {
		return nil, api.Validation("missing prepared purchase")
	}

	if pay.ProviderRef != nil && *pay.ProviderRef != "" {
		existing, err := c.memberships.FindPaymentByProviderRef(ctx, *pay.ProviderRef)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logger.Infof("Duplicate payment delivery for provider ref %s, membership %d", *pay.ProviderRef, existing.MembershipID)
			metrics.RecordDuplicatePaymentDelivery()
			snapshot, err := c.clients.GetSnapshot(ctx, prepared.ClientID())
			if err != nil {
				return nil, err
			}
			return &CommitResult{MembershipID: existing.MembershipID, Deduplicated: true, Snapshot: snapshot}, nil
		}
	}

	status := StatusActive
	if pay.Status != PaymentStatusSuccess {
		status = Status(pay.Status)
	}

	var inserted *Membership
	err := c.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		// One ACTIVE membership per client: retire the old ones first.
		deactivated, err := c.memberships.DeactivateActiveForClient(ctx, tx, prepared.ClientID())
		if err != nil {
			return err
		}
		if deactivated > 0 {
			logger.Infof("Deactivated %d prior membership(s) for client %d", deactivated, prepared.ClientID())
		}

		inserted, err = c.memberships.InsertMembership(ctx, tx, &Membership{
			ClientID:           prepared.ClientID(),
			MembershipTypeID:   prepared.MembershipType().ID,
			Status:             status,
			StartDate:          prepared.StartDate(),
			EndDate:            prepared.EndDate(),
			TermYears:          prepared.TermYears(),
			PrivilegesSnapshot: prepared.MembershipType().Privileges,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	paidAt := pay.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	_, err = c.memberships.InsertPayment(ctx, &Payment{
		MembershipID: inserted.ID,
		AmountCents:  prepared.AmountCents(),
		Currency:     prepared.MembershipType().Currency,
		Status:       pay.Status,
		PeriodStart:  prepared.StartDate(),
		PeriodEnd:    prepared.EndDate(),
		PeriodYears:  prepared.TermYears(),
		ProviderRef:  pay.ProviderRef,
		PaidAt:       paidAt,
	})
	if err != nil {
		// The membership is already durable; tell the operator exactly that.
		return nil, api.PartialFailure("membership created, payment not recorded", err)
	}

	if err := c.clients.SetStatus(ctx, prepared.ClientID(), client.StatusActive); err != nil {
		return nil, err
	}

	snapshot, err := c.clients.GetSnapshot(ctx, prepared.ClientID())
	if err != nil {
		return nil, err
	}

	metrics.RecordMembershipPurchase()
	return &CommitResult{MembershipID: inserted.ID, Snapshot: snapshot}, nil
}
