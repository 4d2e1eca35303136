package client

import "time"

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Client struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MembershipSummary is the denormalized membership row embedded in a
// client snapshot.
type MembershipSummary struct {
	ID        int       `db:"id" json:"id"`
	TypeName  string    `db:"type_name" json:"type_name"`
	Status    string    `db:"status" json:"status"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	TermYears int       `db:"term_years" json:"term_years"`
}

// PlanSummary is the denormalized plan purchase row embedded in a client
// snapshot.
type PlanSummary struct {
	ID               int        `db:"id" json:"id"`
	TypeName         string     `db:"type_name" json:"type_name"`
	Status           string     `db:"status" json:"status"`
	Modality         string     `db:"modality" json:"modality"`
	StartDate        time.Time  `db:"start_date" json:"start_date"`
	ExpiresAt        *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	InitialClasses   *int       `db:"initial_classes" json:"initial_classes,omitempty"`
	RemainingClasses *int       `db:"remaining_classes" json:"remaining_classes,omitempty"`
}

// Snapshot is the consolidated view returned after a purchase commits, so
// the caller can render the client's entitlements immediately.
type Snapshot struct {
	Client      Client              `json:"client"`
	Memberships []MembershipSummary `json:"memberships"`
	Plans       []PlanSummary       `json:"plans"`
}
