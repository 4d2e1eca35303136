package waitlist

import (
	"context"

	"github.com/jmoiron/sqlx"

	"studiobook/internal/db"
	"studiobook/internal/metrics"
)

type Service interface {
	Join(ctx context.Context, sessionID, clientID int) (*Entry, error)
	Cancel(ctx context.Context, entryID int) (*Entry, error)
	Promote(ctx context.Context, entryID int) (*Entry, error)
	Resequence(ctx context.Context, sessionID int) error
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Join(ctx context.Context, sessionID, clientID int) (*Entry, error) {
	return s.repo.Join(ctx, sessionID, clientID)
}

func (s *service) Cancel(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.repo.SetStatus(ctx, entryID, StatusCancelled)
	if err != nil {
		return nil, err
	}

	if err := s.Resequence(ctx, e.SessionID); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *service) Promote(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.repo.SetStatus(ctx, entryID, StatusPromoted)
	if err != nil {
		return nil, err
	}

	if err := s.Resequence(ctx, e.SessionID); err != nil {
		return nil, err
	}

	return e, nil
}

// Resequence rewrites the session's PENDING positions as a dense 1..N run.
// The whole pass runs in one transaction so a crash cannot leave duplicate
// or gapped positions behind.
func (s *service) Resequence(ctx context.Context, sessionID int) error {
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		entries, err := s.repo.ListPending(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		for i, e := range entries {
			want := i + 1
			if e.Position == want {
				continue
			}
			if err := s.repo.UpdatePosition(ctx, tx, e.ID, want); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordWaitlistResequence()
	return nil
}
