package booking

import (
	"context"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
	"studiobook/internal/session"
)

var (
	ErrSessionFull      = api.Conflict("session is full")
	ErrDuplicateBooking = api.Conflict("client already has a booking for this session")
)

// CapacityGuard checks occupancy and duplicate bookings before a seat is
// reserved. Callers that need the check to hold through the insert must run
// it against a transaction holding the session row lock.
type CapacityGuard struct {
	bookings Repository
}

func NewCapacityGuard(bookings Repository) *CapacityGuard {
	return &CapacityGuard{bookings: bookings}
}

func (g *CapacityGuard) EnsureSeat(ctx context.Context, ext sqlx.ExtContext, sess *session.Session) error {
	occupancy, err := g.bookings.CountActiveForSession(ctx, ext, sess.ID)
	if err != nil {
		return err
	}

	if occupancy >= sess.Capacity {
		return ErrSessionFull
	}

	return nil
}

func (g *CapacityGuard) EnsureNotBooked(ctx context.Context, ext sqlx.ExtContext, clientID, sessionID int) error {
	booked, err := g.bookings.ClientHasActiveBooking(ctx, ext, clientID, sessionID)
	if err != nil {
		return err
	}

	if booked {
		return ErrDuplicateBooking
	}

	return nil
}
