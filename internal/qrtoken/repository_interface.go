package qrtoken

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	UpsertForBooking(ctx context.Context, ext sqlx.ExtContext, bookingID int, code string, expiresAt *time.Time) (*Token, error)
	GetByCode(ctx context.Context, code string) (*Token, error)

	InsertInstructorToken(ctx context.Context, instructorID, sessionID int, code string, expiresAt time.Time) (*InstructorToken, error)
	GetInstructorTokenByCode(ctx context.Context, code string) (*InstructorToken, error)
	// ConsumeInstructorToken marks the token consumed; it reports a zero
	// update when the token was already consumed by a racing request.
	ConsumeInstructorToken(ctx context.Context, tokenID int, consumedBy string, at time.Time) (bool, error)
	UpsertInstructorAttendance(ctx context.Context, instructorID, sessionID int, at time.Time) (*InstructorAttendance, error)
}
