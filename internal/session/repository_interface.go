package session

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Session, error)
	// ListUpcomingForCourse returns course sessions starting at or after
	// `from`, ordered by start time ascending, capped at `limit`.
	ListUpcomingForCourse(ctx context.Context, ext sqlx.ExtContext, courseID int, from time.Time, limit int) ([]Session, error)
	// LockForBooking loads a session row under FOR UPDATE so a capacity
	// check and the booking insert observe a stable seat count.
	LockForBooking(ctx context.Context, tx *sqlx.Tx, id int) (*Session, error)
}
