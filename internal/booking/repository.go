package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
)

var ErrBookingNotFoundOrAlreadyCancelled = api.Conflict("booking not found or already cancelled")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, client_id, session_id, plan_purchase_id, status, checked_in_at, created_at, updated_at`

func (r *repository) ext(ext sqlx.ExtContext) sqlx.ExtContext {
	if ext == nil {
		return r.db
	}
	return ext
}

func (r *repository) InsertBooking(ctx context.Context, ext sqlx.ExtContext, clientID, sessionID int, planPurchaseID *int) (*Booking, error) {
	query := `
		INSERT INTO bookings (client_id, session_id, plan_purchase_id, status)
		VALUES ($1, $2, $3, 'CONFIRMED')
		RETURNING ` + bookingColumns + `
	`

	var b Booking
	err := sqlx.GetContext(ctx, r.ext(ext), &b, query, clientID, sessionID, planPurchaseID)
	if err != nil {
		return nil, api.Integrity("insert booking", err)
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("booking not found")
	}
	if err != nil {
		return nil, api.Integrity("get booking", err)
	}

	return &b, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status, checkedInAt *time.Time) error {
	query := `
		UPDATE bookings
		SET status = $2, checked_in_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, checkedInAt)
	if err != nil {
		return api.Integrity("update booking status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return api.Integrity("update booking status", err)
	}

	if rowsAffected == 0 {
		return api.NotFound("booking not found")
	}

	return nil
}

func (r *repository) Cancel(ctx context.Context, id int) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('CANCELLED', 'REBOOKED')
		RETURNING ` + bookingColumns + `
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFoundOrAlreadyCancelled
	}
	if err != nil {
		return nil, api.Integrity("cancel booking", err)
	}

	return &b, nil
}

func (r *repository) CountActiveForSession(ctx context.Context, ext sqlx.ExtContext, sessionID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE session_id = $1 AND status != 'CANCELLED'
	`

	var count int
	err := sqlx.GetContext(ctx, r.ext(ext), &count, query, sessionID)
	if err != nil {
		return 0, api.Integrity("count session bookings", err)
	}

	return count, nil
}

func (r *repository) ClientHasActiveBooking(ctx context.Context, ext sqlx.ExtContext, clientID, sessionID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE client_id = $1 AND session_id = $2 AND status != 'CANCELLED'
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.ext(ext), &exists, query, clientID, sessionID)
	if err != nil {
		return false, api.Integrity("check duplicate booking", err)
	}

	return exists, nil
}

func (r *repository) InsertEvent(ctx context.Context, ext sqlx.ExtContext, bookingID int, actor string, eventType EventType, metadata map[string]interface{}) error {
	var meta json.RawMessage
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return api.Integrity("marshal event metadata", err)
		}
		meta = data
	}

	query := `
		INSERT INTO booking_events (booking_id, actor, event_type, metadata)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.ext(ext).ExecContext(ctx, query, bookingID, actor, eventType, meta)
	if err != nil {
		return api.Integrity("insert booking event", err)
	}

	return nil
}

func (r *repository) ListEvents(ctx context.Context, bookingID int) ([]Event, error) {
	query := `
		SELECT id, booking_id, actor, event_type, metadata, created_at
		FROM booking_events
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`

	events := []Event{}
	err := r.db.SelectContext(ctx, &events, query, bookingID)
	if err != nil {
		return nil, api.Integrity("list booking events", err)
	}

	return events, nil
}

const detailColumns = `
	b.id,
	b.client_id,
	b.session_id,
	b.plan_purchase_id,
	b.status,
	b.checked_in_at,
	b.created_at,
	b.updated_at,
	s.start_time AS session_start,
	s.end_time AS session_end,
	c.name AS client_name,
	c.email AS client_email
`

func (r *repository) ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN sessions s ON b.session_id = s.id
		JOIN clients c ON b.client_id = c.id
		WHERE b.client_id = $1
		ORDER BY s.start_time DESC
	`

	bookings := []BookingWithDetails{}
	err := r.db.SelectContext(ctx, &bookings, query, clientID)
	if err != nil {
		return nil, api.Integrity("list client bookings", err)
	}

	return bookings, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN sessions s ON b.session_id = s.id
		JOIN clients c ON b.client_id = c.id
		WHERE b.session_id = $1
		ORDER BY b.created_at ASC
	`

	bookings := []BookingWithDetails{}
	err := r.db.SelectContext(ctx, &bookings, query, sessionID)
	if err != nil {
		return nil, api.Integrity("list session bookings", err)
	}

	return bookings, nil
}
