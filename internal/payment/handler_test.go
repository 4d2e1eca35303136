package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobook/internal/booking"
	"studiobook/internal/client"
	"studiobook/internal/email"
	"studiobook/internal/logger"
	"studiobook/internal/membership"
	"studiobook/internal/plan"
	"studiobook/internal/settings"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// Mock repositories
type MockClientRepo struct{ mock.Mock }
type MockPlanRepo struct{ mock.Mock }
type MockMembershipRepo struct{ mock.Mock }

func (m *MockClientRepo) GetByID(ctx context.Context, id int) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepo) SetStatus(ctx context.Context, id int, status client.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockClientRepo) GetSnapshot(ctx context.Context, id int) (*client.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Snapshot), args.Error(1)
}

func (m *MockPlanRepo) GetType(ctx context.Context, id int) (*plan.PlanType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.PlanType), args.Error(1)
}

func (m *MockPlanRepo) InsertPurchase(ctx context.Context, ext sqlx.ExtContext, p *plan.Purchase) (*plan.Purchase, error) {
	args := m.Called(ctx, ext, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Purchase), args.Error(1)
}

func (m *MockPlanRepo) GetPurchase(ctx context.Context, id int) (*plan.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Purchase), args.Error(1)
}

func (m *MockPlanRepo) FindPaymentByProviderRef(ctx context.Context, providerRef string) (*plan.Payment, error) {
	args := m.Called(ctx, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Payment), args.Error(1)
}

func (m *MockPlanRepo) InsertPayment(ctx context.Context, p *plan.Payment) (*plan.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Payment), args.Error(1)
}

func (m *MockMembershipRepo) GetType(ctx context.Context, id int) (*membership.MembershipType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipType), args.Error(1)
}

func (m *MockMembershipRepo) GetLatestActiveForClient(ctx context.Context, clientID int) (*membership.Membership, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *MockMembershipRepo) DeactivateActiveForClient(ctx context.Context, ext sqlx.ExtContext, clientID int) (int, error) {
	args := m.Called(ctx, ext, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockMembershipRepo) InsertMembership(ctx context.Context, ext sqlx.ExtContext, mem *membership.Membership) (*membership.Membership, error) {
	args := m.Called(ctx, ext, mem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetMembership(ctx context.Context, id int) (*membership.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *MockMembershipRepo) FindPaymentByProviderRef(ctx context.Context, providerRef string) (*membership.Payment, error) {
	args := m.Called(ctx, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Payment), args.Error(1)
}

func (m *MockMembershipRepo) InsertPayment(ctx context.Context, p *membership.Payment) (*membership.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Payment), args.Error(1)
}

type fakeBlockBooker struct{}

func (f *fakeBlockBooker) BookBlock(ctx context.Context, tx *sqlx.Tx, req booking.BlockRequest) ([]booking.Booking, error) {
	return nil, nil
}

type fakeTxRunner struct{}

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func intPtr(v int) *int { return &v }

func setupHandler(t *testing.T, cr *MockClientRepo, pr *MockPlanRepo, mr *MockMembershipRepo) *gin.Engine {
	t.Helper()

	set, err := settings.New("UTC")
	require.NoError(t, err)

	emailService := email.New("from@test.com", "Test", "localhost", "1025", "", "", "localhost:6379")
	t.Cleanup(func() { emailService.Close() })

	handler := NewHandler(
		plan.NewPreparer(cr, pr, mr, set),
		plan.NewCommitter(pr, cr, &fakeBlockBooker{}, &fakeTxRunner{}),
		membership.NewPreparer(cr, mr, set),
		membership.NewCommitter(mr, cr, &fakeTxRunner{}),
		emailService,
	)

	router := gin.New()
	router.POST("/payments/events", handler.HandleEvent)
	return router
}

func postEvent(t *testing.T, router *gin.Engine, event interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/payments/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func planEvent(intentRef string) Event {
	return Event{
		ProviderEventID:  "evt_1",
		PaymentStatus:    "SUCCESS",
		AmountTotal:      50000,
		Currency:         "BRL",
		PaymentIntentRef: intentRef,
		CreatedAtEpoch:   time.Now().Unix(),
		Metadata: Metadata{
			ClientID:   1,
			PlanTypeID: intPtr(7),
			Modality:   "FLEXIBLE",
			StartISO:   "2026-09-01",
		},
	}
}

func TestHandleEvent_PlanPurchase(t *testing.T) {
	cr := new(MockClientRepo)
	pr := new(MockPlanRepo)
	mr := new(MockMembershipRepo)

	cr.On("GetByID", mock.Anything, 1).Return(&client.Client{ID: 1, Name: "Ana", Email: "ana@example.com"}, nil)
	pr.On("GetType", mock.Anything, 7).Return(&plan.PlanType{ID: 7, Name: "10 Classes", ClassCount: intPtr(10), PriceCents: 50000, Currency: "BRL"}, nil)
	pr.On("FindPaymentByProviderRef", mock.Anything, "pi_777").Return(nil, nil)
	pr.On("InsertPurchase", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan.Purchase{ID: 42, ClientID: 1, Status: plan.StatusActive}, nil)
	pr.On("InsertPayment", mock.Anything, mock.Anything).Return(&plan.Payment{ID: 1}, nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	router := setupHandler(t, cr, pr, mr)
	w := postEvent(t, router, planEvent("pi_777"))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["purchase_id"])
	assert.Equal(t, false, resp["deduplicated"])
}

func TestHandleEvent_PlanPurchaseRedelivery(t *testing.T) {
	cr := new(MockClientRepo)
	pr := new(MockPlanRepo)
	mr := new(MockMembershipRepo)

	cr.On("GetByID", mock.Anything, 1).Return(&client.Client{ID: 1}, nil)
	pr.On("GetType", mock.Anything, 7).Return(&plan.PlanType{ID: 7, ClassCount: intPtr(10), PriceCents: 50000, Currency: "BRL"}, nil)
	pr.On("FindPaymentByProviderRef", mock.Anything, "pi_777").
		Return(&plan.Payment{ID: 1, PurchaseID: 42}, nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	router := setupHandler(t, cr, pr, mr)
	w := postEvent(t, router, planEvent("pi_777"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["deduplicated"])
	pr.AssertNotCalled(t, "InsertPurchase")
}

func TestHandleEvent_AmountMismatch(t *testing.T) {
	cr := new(MockClientRepo)
	pr := new(MockPlanRepo)
	mr := new(MockMembershipRepo)

	cr.On("GetByID", mock.Anything, 1).Return(&client.Client{ID: 1}, nil)
	pr.On("GetType", mock.Anything, 7).Return(&plan.PlanType{ID: 7, ClassCount: intPtr(10), PriceCents: 60000, Currency: "BRL"}, nil)

	router := setupHandler(t, cr, pr, mr)
	w := postEvent(t, router, planEvent("pi_778"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	pr.AssertNotCalled(t, "InsertPurchase")
}

func TestHandleEvent_MembershipPurchase(t *testing.T) {
	cr := new(MockClientRepo)
	pr := new(MockPlanRepo)
	mr := new(MockMembershipRepo)

	cr.On("GetByID", mock.Anything, 1).Return(&client.Client{ID: 1, Name: "Ana", Email: "ana@example.com"}, nil)
	mr.On("GetType", mock.Anything, 5).Return(&membership.MembershipType{ID: 5, Name: "Annual", PricePerYearCents: 120000, Currency: "BRL"}, nil)
	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_9").Return(nil, nil)
	mr.On("DeactivateActiveForClient", mock.Anything, mock.Anything, 1).Return(0, nil)
	mr.On("InsertMembership", mock.Anything, mock.Anything, mock.Anything).
		Return(&membership.Membership{ID: 9, Status: membership.StatusActive}, nil)
	mr.On("InsertPayment", mock.Anything, mock.Anything).Return(&membership.Payment{ID: 1}, nil)
	cr.On("SetStatus", mock.Anything, 1, client.StatusActive).Return(nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	router := setupHandler(t, cr, pr, mr)
	w := postEvent(t, router, Event{
		ProviderEventID:  "evt_2",
		PaymentStatus:    "SUCCESS",
		AmountTotal:      120000,
		Currency:         "BRL",
		PaymentIntentRef: "pi_m_9",
		Metadata: Metadata{
			ClientID:         1,
			MembershipTypeID: intPtr(5),
			StartISO:         "2026-09-01",
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(9), resp["membership_id"])
}

func TestHandleEvent_NeitherPlanNorMembership(t *testing.T) {
	router := setupHandler(t, new(MockClientRepo), new(MockPlanRepo), new(MockMembershipRepo))

	w := postEvent(t, router, Event{
		ProviderEventID:  "evt_3",
		PaymentStatus:    "SUCCESS",
		AmountTotal:      1000,
		Currency:         "BRL",
		PaymentIntentRef: "pi_x",
		Metadata:         Metadata{ClientID: 1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEvent_MalformedPayload(t *testing.T) {
	router := setupHandler(t, new(MockClientRepo), new(MockPlanRepo), new(MockMembershipRepo))

	req := httptest.NewRequest("POST", "/payments/events", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
