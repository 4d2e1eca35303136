package membership

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"studiobook/internal/api"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func membershipRows(id, clientID int, status Status, endDate time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "client_id", "membership_type_id", "status", "start_date", "end_date", "term_years", "privileges_snapshot", "created_at"}).
		AddRow(id, clientID, 5, string(status), endDate.AddDate(-1, 0, 1), endDate, 1, `{}`, now)
}

func TestGetLatestActiveForClient(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	endDate := time.Now().AddDate(0, 6, 0)
	mock.ExpectQuery("SELECT (.+) FROM memberships").
		WithArgs(1).
		WillReturnRows(membershipRows(3, 1, StatusActive, endDate))

	m, err := repo.GetLatestActiveForClient(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestActiveForClient_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM memberships").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetLatestActiveForClient(context.Background(), 2)
	require.Error(t, err)
	require.True(t, api.IsKind(err, api.KindNotFound))
}

func TestDeactivateActiveForClient(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("UPDATE memberships").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeactivateActiveForClient(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPaymentByProviderRef_AbsentIsNotAnError(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM membership_payments").
		WithArgs("pi_unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.FindPaymentByProviderRef(context.Background(), "pi_unknown")
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMembership(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	endDate := time.Now().AddDate(1, 0, -1)
	mock.ExpectQuery("INSERT INTO memberships").
		WillReturnRows(membershipRows(9, 1, StatusActive, endDate))

	m, err := repo.InsertMembership(context.Background(), nil, &Membership{
		ClientID:           1,
		MembershipTypeID:   5,
		Status:             StatusActive,
		StartDate:          endDate.AddDate(-1, 0, 1),
		EndDate:            endDate,
		TermYears:          1,
		PrivilegesSnapshot: `{}`,
	})
	require.NoError(t, err)
	require.Equal(t, 9, m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
