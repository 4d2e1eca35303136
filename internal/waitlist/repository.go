package waitlist

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

const entryColumns = `id, session_id, client_id, status, position, created_at`

func (r *repository) Join(ctx context.Context, sessionID, clientID int) (*Entry, error) {
	// New entries go to the back of the queue.
	query := `
		INSERT INTO waitlist_entries (session_id, client_id, status, position)
		VALUES ($1, $2, 'PENDING', (
			SELECT COALESCE(MAX(position), 0) + 1
			FROM waitlist_entries
			WHERE session_id = $1 AND status = 'PENDING'
		))
		RETURNING ` + entryColumns + `
	`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, sessionID, clientID)
	if err != nil {
		return nil, api.Integrity("join waitlist", err)
	}

	return &e, nil
}

func (r *repository) ListPending(ctx context.Context, ext sqlx.ExtContext, sessionID int) ([]Entry, error) {
	if ext == nil {
		ext = r.db
	}

	query := `
		SELECT ` + entryColumns + `
		FROM waitlist_entries
		WHERE session_id = $1 AND status = 'PENDING'
		ORDER BY position ASC, created_at ASC
	`

	entries := []Entry{}
	err := sqlx.SelectContext(ctx, ext, &entries, query, sessionID)
	if err != nil {
		return nil, api.Integrity("list pending waitlist entries", err)
	}

	return entries, nil
}

func (r *repository) UpdatePosition(ctx context.Context, ext sqlx.ExtContext, entryID, position int) error {
	if ext == nil {
		ext = r.db
	}

	query := `
		UPDATE waitlist_entries
		SET position = $2
		WHERE id = $1
	`

	_, err := ext.ExecContext(ctx, query, entryID, position)
	if err != nil {
		return api.Integrity("update waitlist position", err)
	}

	return nil
}

func (r *repository) SetStatus(ctx context.Context, entryID int, status Status) (*Entry, error) {
	query := `
		UPDATE waitlist_entries
		SET status = $2
		WHERE id = $1
		RETURNING ` + entryColumns + `
	`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, entryID, status)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("waitlist entry not found")
	}
	if err != nil {
		return nil, api.Integrity("set waitlist entry status", err)
	}

	return &e, nil
}
