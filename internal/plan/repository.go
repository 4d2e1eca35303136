package plan

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ext(ext sqlx.ExtContext) sqlx.ExtContext {
	if ext == nil {
		return r.db
	}
	return ext
}

func (r *repository) GetType(ctx context.Context, id int) (*PlanType, error) {
	query := `
		SELECT id, name, class_count, price_cents, currency, validity_days, category, requires_membership, created_at
		FROM plan_types
		WHERE id = $1
	`

	var pt PlanType
	err := r.db.GetContext(ctx, &pt, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("plan type not found")
	}
	if err != nil {
		return nil, api.Integrity("get plan type", err)
	}

	return &pt, nil
}

const purchaseColumns = `id, client_id, plan_type_id, status, start_date, expires_at, initial_classes, remaining_classes, modality, notes, created_at`

func (r *repository) InsertPurchase(ctx context.Context, ext sqlx.ExtContext, p *Purchase) (*Purchase, error) {
	query := `
		INSERT INTO plan_purchases (client_id, plan_type_id, status, start_date, expires_at, initial_classes, remaining_classes, modality, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + purchaseColumns + `
	`

	var inserted Purchase
	err := sqlx.GetContext(ctx, r.ext(ext), &inserted, query,
		p.ClientID, p.PlanTypeID, p.Status, p.StartDate, p.ExpiresAt, p.InitialClasses, p.RemainingClasses, p.Modality, p.Notes)
	if err != nil {
		return nil, api.Integrity("insert plan purchase", err)
	}

	return &inserted, nil
}

func (r *repository) GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM plan_purchases
		WHERE id = $1
	`

	var p Purchase
	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("plan purchase not found")
	}
	if err != nil {
		return nil, api.Integrity("get plan purchase", err)
	}

	return &p, nil
}

const paymentColumns = `id, plan_purchase_id, amount_cents, currency, status, provider_ref, notes, paid_at, created_at`

func (r *repository) FindPaymentByProviderRef(ctx context.Context, providerRef string) (*Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM plan_payments
		WHERE provider_ref = $1
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, providerRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, api.Integrity("find plan payment", err)
	}

	return &p, nil
}

func (r *repository) InsertPayment(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO plan_payments (plan_purchase_id, amount_cents, currency, status, provider_ref, notes, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + paymentColumns + `
	`

	var inserted Payment
	err := r.db.GetContext(ctx, &inserted, query,
		p.PurchaseID, p.AmountCents, p.Currency, p.Status, p.ProviderRef, p.Notes, p.PaidAt)
	if err != nil {
		return nil, api.Integrity("insert plan payment", err)
	}

	return &inserted, nil
}
