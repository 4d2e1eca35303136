package client

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (*Client, error)
	SetStatus(ctx context.Context, id int, status Status) error
	GetSnapshot(ctx context.Context, id int) (*Snapshot, error)
}
