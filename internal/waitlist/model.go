package waitlist

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPromoted  Status = "PROMOTED"
	StatusCancelled Status = "CANCELLED"
)

// Entry is a client queued for a freed seat. Position is dense (1..N)
// among the session's PENDING entries; created_at breaks ties.
type Entry struct {
	ID        int       `db:"id" json:"id"`
	SessionID int       `db:"session_id" json:"session_id"`
	ClientID  int       `db:"client_id" json:"client_id"`
	Status    Status    `db:"status" json:"status"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
