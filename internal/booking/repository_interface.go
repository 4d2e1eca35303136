package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	InsertBooking(ctx context.Context, ext sqlx.ExtContext, clientID, sessionID int, planPurchaseID *int) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	UpdateStatus(ctx context.Context, id int, status Status, checkedInAt *time.Time) error
	Cancel(ctx context.Context, id int) (*Booking, error)

	// CountActiveForSession counts non-cancelled bookings, the occupancy
	// figure the capacity guard compares against session capacity.
	CountActiveForSession(ctx context.Context, ext sqlx.ExtContext, sessionID int) (int, error)
	ClientHasActiveBooking(ctx context.Context, ext sqlx.ExtContext, clientID, sessionID int) (bool, error)

	InsertEvent(ctx context.Context, ext sqlx.ExtContext, bookingID int, actor string, eventType EventType, metadata map[string]interface{}) error
	ListEvents(ctx context.Context, bookingID int) ([]Event, error)

	ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error)
	ListBySession(ctx context.Context, sessionID int) ([]BookingWithDetails, error)
}
