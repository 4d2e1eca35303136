package membership

import (
	"context"
	"math"
	"time"

	"studiobook/internal/api"
	"studiobook/internal/client"
	"studiobook/internal/settings"
)

// PrepareInput is the raw purchase request, straight from the admin form
// or the payment event metadata.
type PrepareInput struct {
	ClientID         int
	MembershipTypeID int
	// TermYears may arrive fractional from external metadata; it is rounded
	// to a whole number of years.
	TermYears    float64
	StartDateISO string
}

// PreparedPurchase is the validated membership purchase intent. Its fields
// are unexported so it can only come out of Preparer.Prepare; Commit
// refuses anything else by construction.
type PreparedPurchase struct {
	client         *client.Client
	membershipType *MembershipType
	termYears      int
	startDate      time.Time
	endDate        time.Time
	amountCents    int64
}

func (p *PreparedPurchase) ClientID() int                   { return p.client.ID }
func (p *PreparedPurchase) Client() *client.Client          { return p.client }
func (p *PreparedPurchase) MembershipType() *MembershipType { return p.membershipType }
func (p *PreparedPurchase) TermYears() int                  { return p.termYears }
func (p *PreparedPurchase) StartDate() time.Time            { return p.startDate }
func (p *PreparedPurchase) EndDate() time.Time              { return p.endDate }
func (p *PreparedPurchase) AmountCents() int64              { return p.amountCents }

type Preparer struct {
	clients     client.Repository
	memberships Repository
	settings    *settings.Service
}

func NewPreparer(clients client.Repository, memberships Repository, set *settings.Service) *Preparer {
	return &Preparer{clients: clients, memberships: memberships, settings: set}
}

// Prepare validates the request and derives the term window and total
// amount. It performs no writes.
func (p *Preparer) Prepare(ctx context.Context, in PrepareInput) (*PreparedPurchase, error) {
	c, err := p.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	mt, err := p.memberships.GetType(ctx, in.MembershipTypeID)
	if err != nil {
		return nil, err
	}

	termYears := 1
	if in.TermYears != 0 {
		termYears = int(math.Round(in.TermYears))
	}
	if termYears < 1 {
		return nil, api.Validation("term must be a positive number of years")
	}

	if termYears > 1 && !mt.AllowMultiYear {
		return nil, api.Validationf("membership type %q does not allow multi-year terms", mt.Name)
	}
	if mt.MaxPrepaidYears > 0 && termYears > mt.MaxPrepaidYears {
		return nil, api.Validationf("term exceeds maximum of %d prepaid years", mt.MaxPrepaidYears)
	}

	startDate, err := p.settings.ParseDate(in.StartDateISO, p.settings.Now())
	if err != nil {
		return nil, api.Validationf("invalid start date: %v", err)
	}

	endDate := startDate.AddDate(termYears, 0, -1)

	return &PreparedPurchase{
		client:         c,
		membershipType: mt,
		termYears:      termYears,
		startDate:      startDate,
		endDate:        endDate,
		amountCents:    mt.PricePerYearCents * int64(termYears),
	}, nil
}
