package qrtoken

import "time"

// Token is the client check-in token, one per booking. Reissuing replaces
// the code, so the old one stops resolving.
type Token struct {
	ID        int        `db:"id" json:"id"`
	BookingID int        `db:"booking_id" json:"booking_id"`
	Code      string     `db:"code" json:"code"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// InstructorToken is single-use and short-lived, meant to be scanned in the
// room seconds after it is issued.
type InstructorToken struct {
	ID           int        `db:"id" json:"id"`
	InstructorID int        `db:"instructor_id" json:"instructor_id"`
	SessionID    int        `db:"session_id" json:"session_id"`
	Code         string     `db:"code" json:"code"`
	ExpiresAt    time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt   *time.Time `db:"consumed_at" json:"consumed_at,omitempty"`
	ConsumedBy   *string    `db:"consumed_by" json:"consumed_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type InstructorAttendance struct {
	ID           int       `db:"id" json:"id"`
	InstructorID int       `db:"instructor_id" json:"instructor_id"`
	SessionID    int       `db:"session_id" json:"session_id"`
	CheckedInAt  time.Time `db:"checked_in_at" json:"checked_in_at"`
}
