package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobook/internal/api"
	"studiobook/internal/client"
)

func preparedAnnual(termYears int) *PreparedPurchase {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &PreparedPurchase{
		client: &client.Client{ID: 1, Email: "ana@example.com"},
		membershipType: &MembershipType{
			ID:                5,
			Name:              "Annual",
			PricePerYearCents: 120000,
			Currency:          "BRL",
			Privileges:        `{"guest_passes": 2}`,
		},
		termYears:   termYears,
		startDate:   start,
		endDate:     start.AddDate(termYears, 0, -1),
		amountCents: 120000 * int64(termYears),
	}
}

func TestCommitter_Commit(t *testing.T) {
	mr := new(MockMembershipRepo)
	cr := new(MockClientRepo)

	ref := strPtr("pi_m_1")
	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_1").Return(nil, nil)
	mr.On("DeactivateActiveForClient", mock.Anything, mock.Anything, 1).Return(1, nil)
	mr.On("InsertMembership", mock.Anything, mock.Anything, mock.MatchedBy(func(m *Membership) bool {
		return m.Status == StatusActive && m.TermYears == 2 && m.PrivilegesSnapshot == `{"guest_passes": 2}`
	})).Return(&Membership{ID: 9, ClientID: 1, Status: StatusActive}, nil)
	mr.On("InsertPayment", mock.Anything, mock.MatchedBy(func(p *Payment) bool {
		return p.MembershipID == 9 && p.AmountCents == 240000 && p.PeriodYears == 2
	})).Return(&Payment{ID: 1}, nil)
	cr.On("SetStatus", mock.Anything, 1, client.StatusActive).Return(nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	committer := NewCommitter(mr, cr, &fakeTxRunner{})
	result, err := committer.Commit(context.Background(), preparedAnnual(2), PaymentDetails{
		Status:      PaymentStatusSuccess,
		ProviderRef: ref,
		PaidAt:      time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, 9, result.MembershipID)
	assert.False(t, result.Deduplicated)
	mr.AssertExpectations(t)
	cr.AssertExpectations(t)
}

func TestCommitter_Commit_NonSuccessPaymentStatusCarriesOver(t *testing.T) {
	mr := new(MockMembershipRepo)
	cr := new(MockClientRepo)

	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_2").Return(nil, nil)
	mr.On("DeactivateActiveForClient", mock.Anything, mock.Anything, 1).Return(0, nil)
	mr.On("InsertMembership", mock.Anything, mock.Anything, mock.MatchedBy(func(m *Membership) bool {
		return m.Status == Status("PENDING")
	})).Return(&Membership{ID: 10, Status: "PENDING"}, nil)
	mr.On("InsertPayment", mock.Anything, mock.Anything).Return(&Payment{ID: 2}, nil)
	cr.On("SetStatus", mock.Anything, 1, client.StatusActive).Return(nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	committer := NewCommitter(mr, cr, &fakeTxRunner{})
	result, err := committer.Commit(context.Background(), preparedAnnual(1), PaymentDetails{
		Status:      "PENDING",
		ProviderRef: strPtr("pi_m_2"),
	})

	require.NoError(t, err)
	assert.Equal(t, 10, result.MembershipID)
	mr.AssertExpectations(t)
}

func TestCommitter_Commit_DuplicateProviderRef(t *testing.T) {
	mr := new(MockMembershipRepo)
	cr := new(MockClientRepo)

	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_1").
		Return(&Payment{ID: 1, MembershipID: 9}, nil)
	cr.On("GetSnapshot", mock.Anything, 1).Return(&client.Snapshot{}, nil)

	committer := NewCommitter(mr, cr, &fakeTxRunner{})
	result, err := committer.Commit(context.Background(), preparedAnnual(1), PaymentDetails{
		Status:      PaymentStatusSuccess,
		ProviderRef: strPtr("pi_m_1"),
	})

	require.NoError(t, err)
	assert.True(t, result.Deduplicated)
	assert.Equal(t, 9, result.MembershipID)
	mr.AssertNotCalled(t, "InsertMembership")
	mr.AssertNotCalled(t, "DeactivateActiveForClient")
}

func TestCommitter_Commit_PaymentInsertFailureIsPartial(t *testing.T) {
	mr := new(MockMembershipRepo)
	cr := new(MockClientRepo)

	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_3").Return(nil, nil)
	mr.On("DeactivateActiveForClient", mock.Anything, mock.Anything, 1).Return(0, nil)
	mr.On("InsertMembership", mock.Anything, mock.Anything, mock.Anything).
		Return(&Membership{ID: 11, Status: StatusActive}, nil)
	mr.On("InsertPayment", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	committer := NewCommitter(mr, cr, &fakeTxRunner{})
	result, err := committer.Commit(context.Background(), preparedAnnual(1), PaymentDetails{
		Status:      PaymentStatusSuccess,
		ProviderRef: strPtr("pi_m_3"),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, api.IsKind(err, api.KindPartialFailure))
	assert.Contains(t, err.Error(), "payment not recorded")
	cr.AssertNotCalled(t, "SetStatus")
}

func TestCommitter_Commit_TxFailureLeavesNothing(t *testing.T) {
	mr := new(MockMembershipRepo)
	cr := new(MockClientRepo)

	mr.On("FindPaymentByProviderRef", mock.Anything, "pi_m_4").Return(nil, nil)

	committer := NewCommitter(mr, cr, &fakeTxRunner{err: errors.New("deadlock detected")})
	result, err := committer.Commit(context.Background(), preparedAnnual(1), PaymentDetails{
		Status:      PaymentStatusSuccess,
		ProviderRef: strPtr("pi_m_4"),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	mr.AssertNotCalled(t, "InsertPayment")
}

func TestCommitter_Commit_NilPrepared(t *testing.T) {
	committer := NewCommitter(new(MockMembershipRepo), new(MockClientRepo), &fakeTxRunner{})

	result, err := committer.Commit(context.Background(), nil, PaymentDetails{Status: PaymentStatusSuccess})

	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
	assert.Nil(t, result)
}
