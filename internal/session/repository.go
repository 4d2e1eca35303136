package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const sessionColumns = `id, course_id, instructor_id, room_id, start_time, end_time, capacity, created_at`

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`

	var s Session
	err := r.db.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("session not found")
	}
	if err != nil {
		return nil, api.Integrity("get session", err)
	}

	return &s, nil
}

func (r *repository) ListUpcomingForCourse(ctx context.Context, ext sqlx.ExtContext, courseID int, from time.Time, limit int) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE course_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
		LIMIT $3
	`

	sessions := []Session{}
	err := sqlx.SelectContext(ctx, ext, &sessions, query, courseID, from, limit)
	if err != nil {
		return nil, api.Integrity("list course sessions", err)
	}

	return sessions, nil
}

func (r *repository) LockForBooking(ctx context.Context, tx *sqlx.Tx, id int) (*Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`

	var s Session
	err := tx.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("session not found")
	}
	if err != nil {
		return nil, api.Integrity("lock session", err)
	}

	return &s, nil
}
