package membership

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

func (r *repository) GetType(ctx context.Context, id int) (*MembershipType, error) {
	query := `
		SELECT id, name, price_per_year_cents, currency, allow_multi_year, max_prepaid_years, privileges, created_at
		FROM membership_types
		WHERE id = $1
	`

	var mt MembershipType
	err := r.db.GetContext(ctx, &mt, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("membership type not found")
	}
	if err != nil {
		return nil, api.Integrity("get membership type", err)
	}

	return &mt, nil
}

const membershipColumns = `id, client_id, membership_type_id, status, start_date, end_date, term_years, privileges_snapshot, created_at`

func (r *repository) GetLatestActiveForClient(ctx context.Context, clientID int) (*Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE client_id = $1 AND status = 'ACTIVE'
		ORDER BY end_date DESC
		LIMIT 1
	`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, clientID)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("no active membership")
	}
	if err != nil {
		return nil, api.Integrity("get active membership", err)
	}

	return &m, nil
}

func (r *repository) DeactivateActiveForClient(ctx context.Context, ext sqlx.ExtContext, clientID int) (int, error) {
	query := `
		UPDATE memberships
		SET status = 'INACTIVE'
		WHERE client_id = $1 AND status = 'ACTIVE'
	`

	result, err := r.ext(ext).ExecContext(ctx, query, clientID)
	if err != nil {
		return 0, api.Integrity("deactivate memberships", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, api.Integrity("deactivate memberships", err)
	}

	return int(rowsAffected), nil
}

func (r *repository) InsertMembership(ctx context.Context, ext sqlx.ExtContext, m *Membership) (*Membership, error) {
	query := `
		INSERT INTO memberships (client_id, membership_type_id, status, start_date, end_date, term_years, privileges_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + membershipColumns + `
	`

	var inserted Membership
	err := sqlx.GetContext(ctx, r.ext(ext), &inserted, query,
		m.ClientID, m.MembershipTypeID, m.Status, m.StartDate, m.EndDate, m.TermYears, m.PrivilegesSnapshot)
	if err != nil {
		return nil, api.Integrity("insert membership", err)
	}

	return &inserted, nil
}

func (r *repository) GetMembership(ctx context.Context, id int) (*Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE id = $1
	`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("membership not found")
	}
	if err != nil {
		return nil, api.Integrity("get membership", err)
	}

	return &m, nil
}

const paymentColumns = `id, membership_id, amount_cents, currency, status, period_start, period_end, period_years, provider_ref, paid_at, created_at`

func (r *repository) FindPaymentByProviderRef(ctx context.Context, providerRef string) (*Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM membership_payments
		WHERE provider_ref = $1
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, providerRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, api.Integrity("find membership payment", err)
	}

	return &p, nil
}

func (r *repository) InsertPayment(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO membership_payments (membership_id, amount_cents, currency, status, period_start, period_end, period_years, provider_ref, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + paymentColumns + `
	`

	var inserted Payment
	err := r.db.GetContext(ctx, &inserted, query,
		p.MembershipID, p.AmountCents, p.Currency, p.Status, p.PeriodStart, p.PeriodEnd, p.PeriodYears, p.ProviderRef, p.PaidAt)
	if err != nil {
		return nil, api.Integrity("insert membership payment", err)
	}

	return &inserted, nil
}
