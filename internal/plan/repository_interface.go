package plan

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetType(ctx context.Context, id int) (*PlanType, error)
	InsertPurchase(ctx context.Context, ext sqlx.ExtContext, p *Purchase) (*Purchase, error)
	GetPurchase(ctx context.Context, id int) (*Purchase, error)

	FindPaymentByProviderRef(ctx context.Context, providerRef string) (*Payment, error)
	InsertPayment(ctx context.Context, p *Payment) (*Payment, error)
}
