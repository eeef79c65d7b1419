package restaurant

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxSnapshotsPerPhone bounds the in-memory history of each phone line.
// Older snapshots are dropped once it is exceeded.
const MaxSnapshotsPerPhone = 20

type InMemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]*Snapshot
	limit     int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		snapshots: make(map[string][]*Snapshot),
		limit:     MaxSnapshotsPerPhone,
	}
}

func (r *InMemoryRepository) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.snapshots[snap.Phone], snap)
	if len(list) > r.limit {
		// oldest first, then keep the newest r.limit
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].FetchedAt.Before(list[j].FetchedAt)
		})
		list = append([]*Snapshot(nil), list[len(list)-r.limit:]...)
	}
	r.snapshots[snap.Phone] = list
	return nil
}

func (r *InMemoryRepository) LatestSnapshot(ctx context.Context, phone string) (*Snapshot, error) {
	list, err := r.ListSnapshots(ctx, phone, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrSnapshotNotFound
	}
	return list[0], nil
}

// ListSnapshots returns the newest snapshots first. limit <= 0 means all.
func (r *InMemoryRepository) ListSnapshots(ctx context.Context, phone string, limit int) ([]*Snapshot, error) {
	r.mu.RLock()
	list := append([]*Snapshot(nil), r.snapshots[phone]...)
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].FetchedAt.After(list[j].FetchedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
