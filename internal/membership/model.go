package membership

import "time"

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusExpired  Status = "EXPIRED"
	StatusPending  Status = "PENDING"
)

// MembershipType is the annual catalog entry.
type MembershipType struct {
	ID                int       `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	PricePerYearCents int64     `db:"price_per_year_cents" json:"price_per_year_cents"`
	Currency          string    `db:"currency" json:"currency"`
	AllowMultiYear    bool      `db:"allow_multi_year" json:"allow_multi_year"`
	MaxPrepaidYears   int       `db:"max_prepaid_years" json:"max_prepaid_years"`
	Privileges        string    `db:"privileges" json:"privileges"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type Membership struct {
	ID                 int       `db:"id" json:"id"`
	ClientID           int       `db:"client_id" json:"client_id"`
	MembershipTypeID   int       `db:"membership_type_id" json:"membership_type_id"`
	Status             Status    `db:"status" json:"status"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	TermYears          int       `db:"term_years" json:"term_years"`
	PrivilegesSnapshot string    `db:"privileges_snapshot" json:"privileges_snapshot"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type Payment struct {
	ID           int       `db:"id" json:"id"`
	MembershipID int       `db:"membership_id" json:"membership_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Currency     string    `db:"currency" json:"currency"`
	Status       string    `db:"status" json:"status"`
	PeriodStart  time.Time `db:"period_start" json:"period_start"`
	PeriodEnd    time.Time `db:"period_end" json:"period_end"`
	PeriodYears  int       `db:"period_years" json:"period_years"`
	ProviderRef  *string   `db:"provider_ref" json:"provider_ref,omitempty"`
	PaidAt       time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
