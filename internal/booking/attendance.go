package booking

import (
	"context"

	"studiobook/internal/api"
	"studiobook/internal/metrics"
	"studiobook/internal/settings"
)

var ErrIllegalAttendanceState = api.Conflict("cannot update attendance in current state")

// ToggleResult reports the booking after an attendance call. Changed is
// false when the booking already held the requested state.
type ToggleResult struct {
	Booking *Booking `json:"booking"`
	Changed bool     `json:"changed"`
}

// AttendanceService drives the CONFIRMED <-> CHECKED_IN toggle and writes
// one audit event per actual transition.
type AttendanceService struct {
	bookings Repository
	settings *settings.Service
}

func NewAttendanceService(bookings Repository, set *settings.Service) *AttendanceService {
	return &AttendanceService{bookings: bookings, settings: set}
}

// SetPresence moves the booking to CHECKED_IN (present) or back to
// CONFIRMED. Source is "qr-scan" or "manual"; actor identifies who asked.
func (s *AttendanceService) SetPresence(ctx context.Context, bookingID int, present bool, source, actor string) (*ToggleResult, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusRebooked:
	default:
		return nil, ErrIllegalAttendanceState
	}

	target := StatusConfirmed
	if present {
		target = StatusCheckedIn
	}

	if b.Status == target {
		return &ToggleResult{Booking: b, Changed: false}, nil
	}

	now := s.settings.Now()
	checkedInAt := b.CheckedInAt
	eventType := EventCheckedOut
	direction := "out"
	if present {
		checkedInAt = &now
		eventType = EventCheckedIn
		direction = "in"
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, target, checkedInAt); err != nil {
		return nil, err
	}

	err = s.bookings.InsertEvent(ctx, nil, b.ID, actor, eventType, map[string]interface{}{
		"source": source,
	})
	if err != nil {
		return nil, err
	}

	b.Status = target
	b.CheckedInAt = checkedInAt
	metrics.RecordCheckin(direction, source)
	return &ToggleResult{Booking: b, Changed: true}, nil
}
