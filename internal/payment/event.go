package payment

import (
	"strings"
	"time"

	"studiobook/internal/api"
)

// Event is the normalized payment-success event delivered by the gateway
// collaborator. The gateway has already confirmed the charge; this type
// only carries what the booking core needs.
type Event struct {
	ProviderEventID  string   `json:"provider_event_id" binding:"required"`
	PaymentStatus    string   `json:"payment_status" binding:"required"`
	AmountTotal      int64    `json:"amount_total"`
	Currency         string   `json:"currency" binding:"required"`
	PaymentIntentRef string   `json:"payment_intent_ref" binding:"required"`
	CreatedAtEpoch   int64    `json:"created_at_epoch"`
	Metadata         Metadata `json:"metadata" binding:"required"`
}

type Metadata struct {
	ClientID         int     `json:"client_id" binding:"required"`
	PlanTypeID       *int    `json:"plan_type_id,omitempty"`
	MembershipTypeID *int    `json:"membership_type_id,omitempty"`
	Modality         string  `json:"modality,omitempty"`
	StartISO         string  `json:"start_iso,omitempty"`
	CourseID         *int    `json:"course_id,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	ExpectedAmount   *int64  `json:"expected_amount,omitempty"`
	TermYears        float64 `json:"term_years,omitempty"`
}

func (e *Event) CreatedAt() time.Time {
	if e.CreatedAtEpoch == 0 {
		return time.Now()
	}
	return time.Unix(e.CreatedAtEpoch, 0)
}

// zeroDecimalCurrencies are charged in whole units by the gateway instead
// of hundredths.
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

// ExpectedGatewayAmount converts a catalog price in cents to the amount
// the gateway reports for the given currency.
func ExpectedGatewayAmount(priceCents int64, currency string) int64 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return priceCents / 100
	}
	return priceCents
}

// VerifyAmount checks the delivered total against the catalog price. A
// mismatch is fatal: the event must not be committed.
func VerifyAmount(e *Event, priceCents int64) error {
	expected := ExpectedGatewayAmount(priceCents, e.Currency)
	if e.Metadata.ExpectedAmount != nil {
		expected = *e.Metadata.ExpectedAmount
	}

	if e.AmountTotal != expected {
		return api.Validationf("payment amount %d does not match expected %d %s", e.AmountTotal, expected, e.Currency)
	}

	return nil
}
