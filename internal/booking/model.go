package booking

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusRebooked   Status = "REBOOKED"
)

type Booking struct {
	ID             int        `db:"id" json:"id"`
	ClientID       int        `db:"client_id" json:"client_id"`
	SessionID      int        `db:"session_id" json:"session_id"`
	PlanPurchaseID *int       `db:"plan_purchase_id" json:"plan_purchase_id,omitempty"`
	Status         Status     `db:"status" json:"status"`
	CheckedInAt    *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type EventType string

const (
	EventCreated    EventType = "CREATED"
	EventCancelled  EventType = "CANCELLED"
	EventRebooked   EventType = "REBOOKED"
	EventCheckedIn  EventType = "CHECKED_IN"
	EventCheckedOut EventType = "CHECKED_OUT"
)

// Event is an append-only audit row; rows are never mutated or deleted.
type Event struct {
	ID        int64           `db:"id" json:"id"`
	BookingID int             `db:"booking_id" json:"booking_id"`
	Actor     string          `db:"actor" json:"actor"`
	EventType EventType       `db:"event_type" json:"event_type"`
	Metadata  json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	SessionStart time.Time `db:"session_start" json:"session_start"`
	SessionEnd   time.Time `db:"session_end" json:"session_end"`
	ClientName   string    `db:"client_name" json:"client_name"`
	ClientEmail  string    `db:"client_email" json:"client_email"`
}
