package plan

import (
	"context"
	"time"

	"studiobook/internal/api"
	"studiobook/internal/client"
	"studiobook/internal/membership"
	"studiobook/internal/settings"
)

// PrepareInput is the raw plan purchase request.
type PrepareInput struct {
	ClientID     int
	PlanTypeID   int
	Modality     string
	CourseID     *int
	StartDateISO string
	Notes        string
}

// PreparedPurchase is the validated purchase intent. Fields are unexported:
// the only way to obtain one is Preparer.Prepare, so Commit can trust that
// every invariant below already holds.
type PreparedPurchase struct {
	client         *client.Client
	planType       *PlanType
	modality       Modality
	courseID       *int
	startDate      time.Time
	expiresAt      *time.Time
	initialClasses *int
	membershipID   *int
	notes          string
}

func (p *PreparedPurchase) ClientID() int          { return p.client.ID }
func (p *PreparedPurchase) Client() *client.Client { return p.client }
func (p *PreparedPurchase) PlanType() *PlanType    { return p.planType }
func (p *PreparedPurchase) Modality() Modality     { return p.modality }
func (p *PreparedPurchase) CourseID() *int         { return p.courseID }
func (p *PreparedPurchase) StartDate() time.Time   { return p.startDate }
func (p *PreparedPurchase) ExpiresAt() *time.Time  { return p.expiresAt }
func (p *PreparedPurchase) InitialClasses() *int   { return p.initialClasses }
func (p *PreparedPurchase) MembershipID() *int     { return p.membershipID }
func (p *PreparedPurchase) Notes() string          { return p.notes }

type Preparer struct {
	clients     client.Repository
	plans       Repository
	memberships membership.Repository
	settings    *settings.Service
}

func NewPreparer(clients client.Repository, plans Repository, memberships membership.Repository, set *settings.Service) *Preparer {
	return &Preparer{clients: clients, plans: plans, memberships: memberships, settings: set}
}

// Prepare validates the request and derives dates and class counts. It is
// read-only; nothing is written until Commit.
func (p *Preparer) Prepare(ctx context.Context, in PrepareInput) (*PreparedPurchase, error) {
	c, err := p.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	pt, err := p.plans.GetType(ctx, in.PlanTypeID)
	if err != nil {
		return nil, err
	}

	var membershipID *int
	if pt.RequiresMembership {
		m, err := p.memberships.GetLatestActiveForClient(ctx, in.ClientID)
		if err != nil {
			if api.IsKind(err, api.KindNotFound) {
				return nil, api.Validation("no active membership")
			}
			return nil, err
		}

		today := p.settings.StartOfDay(p.settings.Now())
		if m.EndDate.Before(today) {
			return nil, api.Validation("membership expired")
		}
		membershipID = &m.ID
	}

	modality := Modality(in.Modality)
	switch modality {
	case ModalityFlexible, ModalityFixed:
	default:
		return nil, api.Validationf("unknown modality %q", in.Modality)
	}

	if modality == ModalityFixed && in.CourseID == nil {
		return nil, api.Validation("fixed-modality purchase requires a course")
	}

	startDate, err := p.settings.ParseDate(in.StartDateISO, p.settings.Now())
	if err != nil {
		return nil, api.Validationf("invalid start date: %v", err)
	}

	var expiresAt *time.Time
	if modality == ModalityFlexible && pt.ValidityDays != nil {
		e := startDate.AddDate(0, 0, *pt.ValidityDays)
		expiresAt = &e
	}

	initialClasses := pt.ClassCount
	if modality == ModalityFixed && (initialClasses == nil || *initialClasses <= 0) {
		return nil, api.Validation("fixed-modality plan type must define a positive class count")
	}

	return &PreparedPurchase{
		client:         c,
		planType:       pt,
		modality:       modality,
		courseID:       in.CourseID,
		startDate:      startDate,
		expiresAt:      expiresAt,
		initialClasses: initialClasses,
		membershipID:   membershipID,
		notes:          in.Notes,
	}, nil
}
