package settings

import (
	"fmt"
	"sync"
	"time"
)

// Service holds studio-wide settings that purchase and check-in logic
// depend on. It is constructed once and injected; Refresh reloads instead
// of a hidden TTL cache.
type Service struct {
	mu       sync.RWMutex
	tzName   string
	location *time.Location
}

func New(timezoneName string) (*Service, error) {
	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid studio timezone %q: %w", timezoneName, err)
	}

	return &Service{tzName: timezoneName, location: loc}, nil
}

// Location returns the studio's time reference.
func (s *Service) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// Refresh reloads the timezone, replacing it atomically. A new name may be
// supplied; an empty name reloads the current one.
func (s *Service) Refresh(timezoneName string) error {
	if timezoneName == "" {
		s.mu.RLock()
		timezoneName = s.tzName
		s.mu.RUnlock()
	}

	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		return fmt.Errorf("invalid studio timezone %q: %w", timezoneName, err)
	}

	s.mu.Lock()
	s.tzName = timezoneName
	s.location = loc
	s.mu.Unlock()
	return nil
}

// Now returns the current time in the studio's time reference.
func (s *Service) Now() time.Time {
	return time.Now().In(s.Location())
}

// StartOfDay normalizes t to midnight in the studio's time reference.
func (s *Service) StartOfDay(t time.Time) time.Time {
	local := t.In(s.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location())
}

// ParseDate parses an ISO date or timestamp and normalizes it to the start
// of its studio-local day. An empty input yields today's start of day.
func (s *Service) ParseDate(iso string, now time.Time) (time.Time, error) {
	if iso == "" {
		return s.StartOfDay(now), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", iso, s.Location()); err == nil {
		return s.StartOfDay(t), nil
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable date %q", iso)
	}
	return s.StartOfDay(t), nil
}
