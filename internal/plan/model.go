package plan

import "time"

type Modality string

const (
	ModalityFlexible Modality = "FLEXIBLE"
	ModalityFixed    Modality = "FIXED"
)

type PurchaseStatus string

const (
	StatusActive    PurchaseStatus = "ACTIVE"
	StatusInactive  PurchaseStatus = "INACTIVE"
	StatusExpired   PurchaseStatus = "EXPIRED"
	StatusCancelled PurchaseStatus = "CANCELLED"
)

// PlanType is the catalog entry. A nil ClassCount means unlimited classes;
// a nil ValidityDays means the purchase never expires on its own.
type PlanType struct {
	ID                 int       `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	ClassCount         *int      `db:"class_count" json:"class_count,omitempty"`
	PriceCents         int64     `db:"price_cents" json:"price_cents"`
	Currency           string    `db:"currency" json:"currency"`
	ValidityDays       *int      `db:"validity_days" json:"validity_days,omitempty"`
	Category           string    `db:"category" json:"category"`
	RequiresMembership bool      `db:"requires_membership" json:"requires_membership"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Purchase is the credit ledger row created once per successful payment.
// InitialClasses and RemainingClasses are both nil (unlimited) or both set,
// with remaining never above initial.
type Purchase struct {
	ID               int            `db:"id" json:"id"`
	ClientID         int            `db:"client_id" json:"client_id"`
	PlanTypeID       int            `db:"plan_type_id" json:"plan_type_id"`
	Status           PurchaseStatus `db:"status" json:"status"`
	StartDate        time.Time      `db:"start_date" json:"start_date"`
	ExpiresAt        *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
	InitialClasses   *int           `db:"initial_classes" json:"initial_classes,omitempty"`
	RemainingClasses *int           `db:"remaining_classes" json:"remaining_classes,omitempty"`
	Modality         Modality       `db:"modality" json:"modality"`
	Notes            string         `db:"notes" json:"notes"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// Payment records one gateway payment against a purchase. ProviderRef is
// unique when present, which is what makes webhook redelivery safe.
type Payment struct {
	ID          int       `db:"id" json:"id"`
	PurchaseID  int       `db:"plan_purchase_id" json:"plan_purchase_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	Status      string    `db:"status" json:"status"`
	ProviderRef *string   `db:"provider_ref" json:"provider_ref,omitempty"`
	Notes       string    `db:"notes" json:"notes"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
