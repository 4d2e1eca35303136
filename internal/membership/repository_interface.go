package membership

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetType(ctx context.Context, id int) (*MembershipType, error)
	// GetLatestActiveForClient returns the client's ACTIVE membership with
	// the latest end date, or NotFound.
	GetLatestActiveForClient(ctx context.Context, clientID int) (*Membership, error)
	DeactivateActiveForClient(ctx context.Context, ext sqlx.ExtContext, clientID int) (int, error)
	InsertMembership(ctx context.Context, ext sqlx.ExtContext, m *Membership) (*Membership, error)
	GetMembership(ctx context.Context, id int) (*Membership, error)

	FindPaymentByProviderRef(ctx context.Context, providerRef string) (*Payment, error)
	InsertPayment(ctx context.Context, p *Payment) (*Payment, error)
}
