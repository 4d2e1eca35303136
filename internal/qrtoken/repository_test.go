package qrtoken

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

func TestUpsertForBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "booking_id", "code", "expires_at", "created_at", "updated_at"}).
		AddRow(1, 10, "ABCDEFGH23", nil, now, now)

	mock.ExpectQuery("INSERT INTO qr_tokens").
		WithArgs(10, "ABCDEFGH23", nil).
		WillReturnRows(rows)

	token, err := repo.UpsertForBooking(context.Background(), nil, 10, "ABCDEFGH23", nil)
	require.NoError(t, err)
	require.Equal(t, 10, token.BookingID)
	require.Equal(t, "ABCDEFGH23", token.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCode_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM qr_tokens").
		WithArgs("ZZZZZZZZ99").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByCode(context.Background(), "ZZZZZZZZ99")
	require.Error(t, err)
	require.True(t, api.IsKind(err, api.KindNotFound))
}

func TestConsumeInstructorToken(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectExec("UPDATE instructor_qr_tokens").
		WithArgs(1, now, "scanner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	consumed, err := repo.ConsumeInstructorToken(context.Background(), 1, "scanner-1", now)
	require.NoError(t, err)
	require.True(t, consumed)

	// A second consumer matches no row.
	mock.ExpectExec("UPDATE instructor_qr_tokens").
		WithArgs(1, now, "scanner-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	consumed, err = repo.ConsumeInstructorToken(context.Background(), 1, "scanner-2", now)
	require.NoError(t, err)
	require.False(t, consumed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertInstructorAttendance(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "instructor_id", "session_id", "checked_in_at"}).
		AddRow(1, 7, 20, now)

	mock.ExpectQuery("INSERT INTO instructor_attendances").
		WithArgs(7, 20, now).
		WillReturnRows(rows)

	att, err := repo.UpsertInstructorAttendance(context.Background(), 7, 20, now)
	require.NoError(t, err)
	require.Equal(t, 7, att.InstructorID)
	require.NoError(t, mock.ExpectationsWereMet())
}
