package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadTimezone(t *testing.T) {
	_, err := New("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	svc, err := New("America/Sao_Paulo")
	require.NoError(t, err)

	// 2024-01-02 01:30 UTC is still Jan 1 in Sao Paulo (UTC-3).
	utc := time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC)
	day := svc.StartOfDay(utc)

	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.January, day.Month())
	assert.Equal(t, 1, day.Day())
	assert.Equal(t, 0, day.Hour())
}

func TestParseDate(t *testing.T) {
	svc, err := New("America/Sao_Paulo")
	require.NoError(t, err)

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	got, err := svc.ParseDate("2024-01-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Format("2006-01-02"))

	got, err = svc.ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, svc.StartOfDay(now), got)

	got, err = svc.ParseDate("2024-06-10T18:45:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())

	_, err = svc.ParseDate("not-a-date", now)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	svc, err := New("UTC")
	require.NoError(t, err)

	require.NoError(t, svc.Refresh("America/Sao_Paulo"))
	assert.Equal(t, "America/Sao_Paulo", svc.Location().String())

	// Empty name reloads the current zone.
	require.NoError(t, svc.Refresh(""))
	assert.Equal(t, "America/Sao_Paulo", svc.Location().String())

	assert.Error(t, svc.Refresh("Nope/Nowhere"))
	assert.Equal(t, "America/Sao_Paulo", svc.Location().String())
}
