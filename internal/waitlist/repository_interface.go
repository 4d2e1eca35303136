package waitlist

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Join(ctx context.Context, sessionID, clientID int) (*Entry, error)
	ListPending(ctx context.Context, ext sqlx.ExtContext, sessionID int) ([]Entry, error)
	UpdatePosition(ctx context.Context, ext sqlx.ExtContext, entryID, position int) error
	SetStatus(ctx context.Context, entryID int, status Status) (*Entry, error)
}
