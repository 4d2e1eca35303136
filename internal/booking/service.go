package booking

import (
	"context"

	"studiobook/internal/logger"
)

// Resequencer renumbers a session's waitlist after its pending set changes.
type Resequencer interface {
	Resequence(ctx context.Context, sessionID int) error
}

type Service interface {
	CancelBooking(ctx context.Context, bookingID int, actor string) (*Booking, error)
	GetBooking(ctx context.Context, bookingID int) (*Booking, error)
	ListClientBookings(ctx context.Context, clientID int) ([]BookingWithDetails, error)
	ListSessionBookings(ctx context.Context, sessionID int) ([]BookingWithDetails, error)
	ListBookingEvents(ctx context.Context, bookingID int) ([]Event, error)
}

type service struct {
	bookings Repository
	waitlist Resequencer
}

func NewService(bookings Repository, waitlist Resequencer) Service {
	return &service{bookings: bookings, waitlist: waitlist}
}

func (s *service) CancelBooking(ctx context.Context, bookingID int, actor string) (*Booking, error) {
	b, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.InsertEvent(ctx, nil, b.ID, actor, EventCancelled, nil); err != nil {
		return nil, err
	}

	// A freed seat changes the pending set; renumber the queue. Failure
	// here must not undo the cancellation.
	if err := s.waitlist.Resequence(ctx, b.SessionID); err != nil {
		logger.Errorf("Failed to resequence waitlist for session %d: %v", b.SessionID, err)
	}

	return b, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID int) (*Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *service) ListClientBookings(ctx context.Context, clientID int) ([]BookingWithDetails, error) {
	return s.bookings.ListByClient(ctx, clientID)
}

func (s *service) ListSessionBookings(ctx context.Context, sessionID int) ([]BookingWithDetails, error) {
	return s.bookings.ListBySession(ctx, sessionID)
}

func (s *service) ListBookingEvents(ctx context.Context, bookingID int) ([]Event, error) {
	return s.bookings.ListEvents(ctx, bookingID)
}
