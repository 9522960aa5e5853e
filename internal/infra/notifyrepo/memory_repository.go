package notifyrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/opsdash/internal/domain/notify"
)

// MemoryRepository is an in-memory notify.FireLog used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []notify.FireRecord
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Record implements notify.FireLog.
func (r *MemoryRepository) Record(_ context.Context, rec notify.FireRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = r.nextID
	r.nextID++
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of every row in insertion order.
func (r *MemoryRepository) Records() []notify.FireRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]notify.FireRecord, len(r.records))
	copy(out, r.records)
	return out
}

// DeleteOlderThan removes rows fired before cutoff.
func (r *MemoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	var deleted int64
	for _, rec := range r.records {
		if rec.FiredAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

var _ notify.FireLog = (*MemoryRepository)(nil)
