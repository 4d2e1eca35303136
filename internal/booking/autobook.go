package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
	"studiobook/internal/logger"
	"studiobook/internal/metrics"
	"studiobook/internal/qrtoken"
	"studiobook/internal/session"
)

// Fetch more sessions than requested so already-started or otherwise
// skipped ones do not starve the block.
const sessionOverfetchFactor = 5

// Client tokens for auto-assigned bookings stay scannable until well after
// the class ends.
const autoBookingTokenGrace = 6 * time.Hour

var ErrInsufficientSessions = api.InsufficientSessions("not enough future sessions in course")

// BlockRequest asks for classCount seats on the upcoming sessions of a
// course, reserved as one all-or-nothing block.
type BlockRequest struct {
	PlanPurchaseID int
	ClientID       int
	ClassCount     int
	CourseID       int
	StartDate      time.Time
}

// AutoBooker reserves a block of course sessions for a fixed-modality plan
// purchase. It always runs inside the purchase transaction: the session
// rows are locked, so the validation pass still holds during the commit
// pass.
type AutoBooker struct {
	sessions session.Repository
	bookings Repository
	guard    *CapacityGuard
	tokens   qrtoken.Service
}

func NewAutoBooker(sessions session.Repository, bookings Repository, guard *CapacityGuard, tokens qrtoken.Service) *AutoBooker {
	return &AutoBooker{
		sessions: sessions,
		bookings: bookings,
		guard:    guard,
		tokens:   tokens,
	}
}

func (a *AutoBooker) BookBlock(ctx context.Context, tx *sqlx.Tx, req BlockRequest) ([]Booking, error) {
	if req.ClassCount <= 0 {
		return nil, api.Validation("class count must be positive")
	}

	candidates, err := a.sessions.ListUpcomingForCourse(ctx, tx, req.CourseID, req.StartDate, req.ClassCount*sessionOverfetchFactor)
	if err != nil {
		return nil, err
	}

	if len(candidates) < req.ClassCount {
		logger.Infof("Auto-booking aborted: course %d has %d future sessions, need %d", req.CourseID, len(candidates), req.ClassCount)
		return nil, ErrInsufficientSessions
	}

	selected := candidates[:req.ClassCount]

	// Validation pass: lock each session and check the invariants before
	// any booking is written.
	locked := make([]*session.Session, 0, len(selected))
	for _, cand := range selected {
		sess, err := a.sessions.LockForBooking(ctx, tx, cand.ID)
		if err != nil {
			return nil, err
		}

		if err := a.guard.EnsureNotBooked(ctx, tx, req.ClientID, sess.ID); err != nil {
			return nil, err
		}
		if err := a.guard.EnsureSeat(ctx, tx, sess); err != nil {
			return nil, err
		}

		locked = append(locked, sess)
	}

	// Commit pass: insert the bookings, issue tokens, record audit events.
	purchaseID := req.PlanPurchaseID
	bookings := make([]Booking, 0, len(locked))
	for _, sess := range locked {
		b, err := a.bookings.InsertBooking(ctx, tx, req.ClientID, sess.ID, &purchaseID)
		if err != nil {
			return nil, err
		}

		expiresAt := sess.StartTime.Add(autoBookingTokenGrace)
		if _, err := a.tokens.IssueForBooking(ctx, tx, b.ID, &expiresAt); err != nil {
			return nil, err
		}

		err = a.bookings.InsertEvent(ctx, tx, b.ID, "system", EventCreated, map[string]interface{}{
			"autoAssigned": true,
			"planPurchase": req.PlanPurchaseID,
		})
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *b)
	}

	metrics.RecordAutoBookings(len(bookings))
	return bookings, nil
}
