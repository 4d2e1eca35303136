package qrtoken

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

func (r *repository) UpsertForBooking(ctx context.Context, ext sqlx.ExtContext, bookingID int, code string, expiresAt *time.Time) (*Token, error) {
	if ext == nil {
		ext = r.db
	}

	query := `
		INSERT INTO qr_tokens (booking_id, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, updated_at = NOW()
		RETURNING id, booking_id, code, expires_at, created_at, updated_at
	`

	var token Token
	err := sqlx.GetContext(ctx, ext, &token, query, bookingID, code, expiresAt)
	if err != nil {
		return nil, api.Integrity("upsert qr token", err)
	}

	return &token, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Token, error) {
	query := `
		SELECT id, booking_id, code, expires_at, created_at, updated_at
		FROM qr_tokens
		WHERE code = $1
	`

	var token Token
	err := r.db.GetContext(ctx, &token, query, code)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("token not found")
	}
	if err != nil {
		return nil, api.Integrity("get qr token", err)
	}

	return &token, nil
}

func (r *repository) InsertInstructorToken(ctx context.Context, instructorID, sessionID int, code string, expiresAt time.Time) (*InstructorToken, error) {
	query := `
		INSERT INTO instructor_qr_tokens (instructor_id, session_id, code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, instructor_id, session_id, code, expires_at, consumed_at, consumed_by, created_at
	`

	var token InstructorToken
	err := r.db.GetContext(ctx, &token, query, instructorID, sessionID, code, expiresAt)
	if err != nil {
		return nil, api.Integrity("insert instructor token", err)
	}

	return &token, nil
}

func (r *repository) GetInstructorTokenByCode(ctx context.Context, code string) (*InstructorToken, error) {
	query := `
		SELECT id, instructor_id, session_id, code, expires_at, consumed_at, consumed_by, created_at
		FROM instructor_qr_tokens
		WHERE code = $1
	`

	var token InstructorToken
	err := r.db.GetContext(ctx, &token, query, code)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("token not found")
	}
	if err != nil {
		return nil, api.Integrity("get instructor token", err)
	}

	return &token, nil
}

func (r *repository) ConsumeInstructorToken(ctx context.Context, tokenID int, consumedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE instructor_qr_tokens
		SET consumed_at = $2, consumed_by = $3
		WHERE id = $1 AND consumed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, tokenID, at, consumedBy)
	if err != nil {
		return false, api.Integrity("consume instructor token", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, api.Integrity("consume instructor token", err)
	}

	return rowsAffected > 0, nil
}

func (r *repository) UpsertInstructorAttendance(ctx context.Context, instructorID, sessionID int, at time.Time) (*InstructorAttendance, error) {
	query := `
		INSERT INTO instructor_attendances (instructor_id, session_id, checked_in_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (instructor_id, session_id) DO UPDATE
		SET checked_in_at = EXCLUDED.checked_in_at
		RETURNING id, instructor_id, session_id, checked_in_at
	`

	var att InstructorAttendance
	err := r.db.GetContext(ctx, &att, query, instructorID, sessionID, at)
	if err != nil {
		return nil, api.Integrity("upsert instructor attendance", err)
	}

	return &att, nil
}
