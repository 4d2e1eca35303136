package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
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

func bookingRows(id, clientID, sessionID int, status Status, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "client_id", "session_id", "plan_purchase_id", "status", "checked_in_at", "created_at", "updated_at"}).
		AddRow(id, clientID, sessionID, nil, string(status), nil, now, now)
}

func TestInsertAndGetBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(1, 2, nil).
		WillReturnRows(bookingRows(10, 1, 2, StatusConfirmed, now))

	b, err := repo.InsertBooking(ctx, nil, 1, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 10, b.ID)
	require.Equal(t, StatusConfirmed, b.Status)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(10).
		WillReturnRows(bookingRows(10, 1, 2, StatusConfirmed, now))

	got, err := repo.GetByID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 10, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	ctx := context.Background()

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(5).
		WillReturnRows(bookingRows(5, 1, 2, StatusCancelled, now))

	b, err := repo.Cancel(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, b.Status)

	// Second cancel finds no matching row.
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.Cancel(ctx, 5)
	require.ErrorIs(t, err, ErrBookingNotFoundOrAlreadyCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs(99, string(StatusCheckedIn), nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, StatusCheckedIn, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountsAndExists(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	cnt, err := repo.CountActiveForSession(ctx, nil, 3)
	require.NoError(t, err)
	require.Equal(t, 7, cnt)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ClientHasActiveBooking(ctx, nil, 1, 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEvent(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("INSERT INTO booking_events").
		WithArgs(10, "system", string(EventCreated), []byte(`{"autoAssigned":true}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertEvent(context.Background(), nil, 10, "system", EventCreated, map[string]interface{}{
		"autoAssigned": true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEvents(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "booking_id", "actor", "event_type", "metadata", "created_at"}).
		AddRow(1, 10, "system", string(EventCreated), []byte(`{}`), now).
		AddRow(2, 10, "reception", string(EventCheckedIn), []byte(`{"source":"manual"}`), now.Add(time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM booking_events").
		WithArgs(10).
		WillReturnRows(rows)

	events, err := repo.ListEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, EventCreated, events[0].EventType)
	require.NoError(t, mock.ExpectationsWereMet())
}
