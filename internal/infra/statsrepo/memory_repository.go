package statsrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/opsdash/internal/domain/sysstats"
	"github.com/yanqian/opsdash/pkg/util"
)

// MemoryRepository is an in-memory sysstats.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []sysstats.Snapshot
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Insert implements sysstats.Repository.
func (r *MemoryRepository) Insert(_ context.Context, snap sysstats.Snapshot) (sysstats.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, snap)
	return snap, nil
}

// Latest implements sysstats.Repository.
func (r *MemoryRepository) Latest(ctx context.Context) (sysstats.Snapshot, bool, error) {
	items, _ := r.History(ctx, 1)
	if len(items) == 0 {
		return sysstats.Snapshot{}, false, nil
	}
	return items[0], true, nil
}

// History implements sysstats.Repository.
func (r *MemoryRepository) History(_ context.Context, limit int) ([]sysstats.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.NewestFirst(r.rows, limit, func(s sysstats.Snapshot) (time.Time, int64) {
		return s.CapturedAt, s.ID
	}), nil
}

// DeleteOlderThan removes snapshots captured before cutoff.
func (r *MemoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var deleted int64
	for _, s := range r.rows {
		if s.CapturedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.rows = kept
	return deleted, nil
}

var _ sysstats.Repository = (*MemoryRepository)(nil)
