package qrtoken

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/api"
	"studiobook/internal/metrics"
	"studiobook/internal/settings"
)

// instructorTokenTTL keeps instructor tokens scannable only for the few
// seconds the code is on screen in the room.
const instructorTokenTTL = 10 * time.Second

var (
	ErrTokenExpired  = api.Expired("token expired")
	ErrTokenConsumed = api.Conflict("token already consumed")
)

type Service interface {
	IssueForBooking(ctx context.Context, ext sqlx.ExtContext, bookingID int, expiresAt *time.Time) (*Token, error)
	Resolve(ctx context.Context, rawCode string) (*Token, error)
	IssueInstructorToken(ctx context.Context, instructorID, sessionID int) (*InstructorToken, error)
	ConsumeInstructor(ctx context.Context, rawCode string, consumedBy string) (*InstructorToken, error)
}

type service struct {
	repo     Repository
	settings *settings.Service
}

func NewService(repo Repository, set *settings.Service) Service {
	return &service{repo: repo, settings: set}
}

func (s *service) IssueForBooking(ctx context.Context, ext sqlx.ExtContext, bookingID int, expiresAt *time.Time) (*Token, error) {
	code, err := newCode()
	if err != nil {
		return nil, api.Integrity("generate token code", err)
	}

	token, err := s.repo.UpsertForBooking(ctx, ext, bookingID, code, expiresAt)
	if err != nil {
		return nil, err
	}

	metrics.RecordTokenIssued("client")
	return token, nil
}

func (s *service) Resolve(ctx context.Context, rawCode string) (*Token, error) {
	code := normalizeCode(rawCode)
	if code == "" {
		metrics.RecordTokenResolution("client", "not_found")
		return nil, api.NotFound("token not found")
	}

	token, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		metrics.RecordTokenResolution("client", "not_found")
		return nil, err
	}

	if token.ExpiresAt != nil && token.ExpiresAt.Before(s.settings.Now()) {
		metrics.RecordTokenResolution("client", "expired")
		return nil, ErrTokenExpired
	}

	metrics.RecordTokenResolution("client", "ok")
	return token, nil
}

func (s *service) IssueInstructorToken(ctx context.Context, instructorID, sessionID int) (*InstructorToken, error) {
	code, err := newCode()
	if err != nil {
		return nil, api.Integrity("generate token code", err)
	}

	token, err := s.repo.InsertInstructorToken(ctx, instructorID, sessionID, code, s.settings.Now().Add(instructorTokenTTL))
	if err != nil {
		return nil, err
	}

	metrics.RecordTokenIssued("instructor")
	return token, nil
}

func (s *service) ConsumeInstructor(ctx context.Context, rawCode string, consumedBy string) (*InstructorToken, error) {
	code := normalizeCode(rawCode)
	if code == "" {
		metrics.RecordTokenResolution("instructor", "not_found")
		return nil, api.NotFound("token not found")
	}

	token, err := s.repo.GetInstructorTokenByCode(ctx, code)
	if err != nil {
		metrics.RecordTokenResolution("instructor", "not_found")
		return nil, err
	}

	if token.ConsumedAt != nil {
		metrics.RecordTokenResolution("instructor", "conflict")
		return nil, ErrTokenConsumed
	}

	now := s.settings.Now()
	if token.ExpiresAt.Before(now) {
		metrics.RecordTokenResolution("instructor", "expired")
		return nil, ErrTokenExpired
	}

	consumed, err := s.repo.ConsumeInstructorToken(ctx, token.ID, consumedBy, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Lost the race to another scan of the same code.
		metrics.RecordTokenResolution("instructor", "conflict")
		return nil, ErrTokenConsumed
	}

	// Attendance is keyed by (instructor, session); repeated sessions for
	// the same pair only bump the timestamp.
	if _, err := s.repo.UpsertInstructorAttendance(ctx, token.InstructorID, token.SessionID, now); err != nil {
		return nil, err
	}

	token.ConsumedAt = &now
	token.ConsumedBy = &consumedBy
	metrics.RecordTokenResolution("instructor", "ok")
	return token, nil
}

func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
