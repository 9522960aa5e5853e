package weatherrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/opsdash/internal/domain/weather"
	"github.com/yanqian/opsdash/pkg/util"
)

// MemoryRepository is an in-memory weather.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []weather.Snapshot
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Insert implements weather.Repository.
func (r *MemoryRepository) Insert(_ context.Context, snap weather.Snapshot) (weather.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, snap)
	return snap, nil
}

// Latest implements weather.Repository.
func (r *MemoryRepository) Latest(ctx context.Context) (weather.Snapshot, bool, error) {
	items, _ := r.History(ctx, 1)
	if len(items) == 0 {
		return weather.Snapshot{}, false, nil
	}
	return items[0], true, nil
}

// History implements weather.Repository.
func (r *MemoryRepository) History(_ context.Context, limit int) ([]weather.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.NewestFirst(r.rows, limit, func(s weather.Snapshot) (time.Time, int64) {
		return s.FetchedAt, s.ID
	}), nil
}

// DeleteOlderThan removes snapshots fetched before cutoff.
func (r *MemoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var deleted int64
	for _, s := range r.rows {
		if s.FetchedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.rows = kept
	return deleted, nil
}

// MemoryAuditLog is an in-memory weather.AuditLog.
type MemoryAuditLog struct {
	mu     sync.RWMutex
	nextID int64
	calls  []weather.APICall
}

// NewMemoryAuditLog constructs an empty audit log.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{nextID: 1}
}

// Record implements weather.AuditLog.
func (a *MemoryAuditLog) Record(_ context.Context, call weather.APICall) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	call.ID = a.nextID
	a.nextID++
	a.calls = append(a.calls, call)
	return nil
}

// Calls returns a copy of every recorded call in insertion order.
func (a *MemoryAuditLog) Calls() []weather.APICall {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]weather.APICall, len(a.calls))
	copy(out, a.calls)
	return out
}

// DeleteOlderThan removes audit rows recorded before cutoff.
func (a *MemoryAuditLog) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.calls[:0]
	var deleted int64
	for _, c := range a.calls {
		if c.CalledAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	a.calls = kept
	return deleted, nil
}

var (
	_ weather.Repository = (*MemoryRepository)(nil)
	_ weather.AuditLog   = (*MemoryAuditLog)(nil)
)
