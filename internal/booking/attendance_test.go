package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobook/internal/settings"
)

func testSettings(t *testing.T) *settings.Service {
	t.Helper()
	set, err := settings.New("UTC")
	require.NoError(t, err)
	return set
}

func TestAttendanceService_SetPresence_CheckIn(t *testing.T) {
	br := new(MockBookingRepo)

	br.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, SessionID: 10, Status: StatusConfirmed}, nil)
	br.On("UpdateStatus", mock.Anything, 1, StatusCheckedIn, mock.Anything).Return(nil)
	br.On("InsertEvent", mock.Anything, mock.Anything, 1, "reception", EventCheckedIn, mock.MatchedBy(func(md map[string]interface{}) bool {
		return md["source"] == "manual"
	})).Return(nil)

	svc := NewAttendanceService(br, testSettings(t))
	result, err := svc.SetPresence(context.Background(), 1, true, "manual", "reception")

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, StatusCheckedIn, result.Booking.Status)
	assert.NotNil(t, result.Booking.CheckedInAt)
	br.AssertExpectations(t)
}

func TestAttendanceService_SetPresence_CheckOut(t *testing.T) {
	br := new(MockBookingRepo)

	br.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, SessionID: 10, Status: StatusCheckedIn}, nil)
	br.On("UpdateStatus", mock.Anything, 1, StatusConfirmed, mock.Anything).Return(nil)
	br.On("InsertEvent", mock.Anything, mock.Anything, 1, "reception", EventCheckedOut, mock.Anything).Return(nil)

	svc := NewAttendanceService(br, testSettings(t))
	result, err := svc.SetPresence(context.Background(), 1, false, "manual", "reception")

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, StatusConfirmed, result.Booking.Status)
	br.AssertExpectations(t)
}

func TestAttendanceService_SetPresence_AlreadyInRequestedState(t *testing.T) {
	br := new(MockBookingRepo)

	br.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, Status: StatusCheckedIn}, nil)

	svc := NewAttendanceService(br, testSettings(t))
	result, err := svc.SetPresence(context.Background(), 1, true, "qr-scan", "scanner")

	require.NoError(t, err)
	assert.False(t, result.Changed)
	// Repeating a scan must not pile up events.
	br.AssertNotCalled(t, "UpdateStatus")
	br.AssertNotCalled(t, "InsertEvent")
}

func TestAttendanceService_SetPresence_CancelledBooking(t *testing.T) {
	br := new(MockBookingRepo)

	br.On("GetByID", mock.Anything, 1).Return(&Booking{ID: 1, Status: StatusCancelled}, nil)

	svc := NewAttendanceService(br, testSettings(t))
	result, err := svc.SetPresence(context.Background(), 1, true, "qr-scan", "scanner")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalAttendanceState)
	assert.Nil(t, result)
}
