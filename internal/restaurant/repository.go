package restaurant

import (
	"context"
	"errors"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Repository keeps a history of fetched restaurant documents.
// Service depends ONLY on this interface.
type Repository interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LatestSnapshot(ctx context.Context, phone string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, phone string, limit int) ([]*Snapshot, error)
}
