package client

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

func (r *repository) GetByID(ctx context.Context, id int) (*Client, error) {
	query := `
		SELECT id, name, email, phone, status, created_at
		FROM clients
		WHERE id = $1
	`

	var c Client
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("client not found")
	}
	if err != nil {
		return nil, api.Integrity("get client", err)
	}

	return &c, nil
}

func (r *repository) SetStatus(ctx context.Context, id int, status Status) error {
	query := `
		UPDATE clients
		SET status = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return api.Integrity("set client status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return api.Integrity("set client status", err)
	}

	if rowsAffected == 0 {
		return api.NotFound("client not found")
	}

	return nil
}

func (r *repository) GetSnapshot(ctx context.Context, id int) (*Snapshot, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	memberships := []MembershipSummary{}
	err = r.db.SelectContext(ctx, &memberships, `
		SELECT
			m.id,
			mt.name AS type_name,
			m.status,
			m.start_date,
			m.end_date,
			m.term_years
		FROM memberships m
		JOIN membership_types mt ON m.membership_type_id = mt.id
		WHERE m.client_id = $1
		ORDER BY m.end_date DESC
	`, id)
	if err != nil {
		return nil, api.Integrity("load membership summaries", err)
	}

	plans := []PlanSummary{}
	err = r.db.SelectContext(ctx, &plans, `
		SELECT
			pp.id,
			pt.name AS type_name,
			pp.status,
			pp.modality,
			pp.start_date,
			pp.expires_at,
			pp.initial_classes,
			pp.remaining_classes
		FROM plan_purchases pp
		JOIN plan_types pt ON pp.plan_type_id = pt.id
		WHERE pp.client_id = $1
		ORDER BY pp.created_at DESC
	`, id)
	if err != nil {
		return nil, api.Integrity("load plan summaries", err)
	}

	return &Snapshot{
		Client:      *c,
		Memberships: memberships,
		Plans:       plans,
	}, nil
}
