package weatherrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/opsdash/internal/domain/retention"
	"github.com/yanqian/opsdash/internal/domain/weather"
)

var (
	_ retention.Purger = (*MemoryRepository)(nil)
	_ retention.Purger = (*MemoryAuditLog)(nil)
)

func TestMemoryRepositoryHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	_, _ = repo.Insert(ctx, weather.Snapshot{FetchedAt: base, City: "first"})
	_, _ = repo.Insert(ctx, weather.Snapshot{FetchedAt: base.Add(time.Hour), City: "third"})
	_, _ = repo.Insert(ctx, weather.Snapshot{FetchedAt: base.Add(30 * time.Minute), City: "second"})

	items, err := repo.History(ctx, 48)
	require.NoError(t, err)
	require.Equal(t, []string{"third", "second", "first"}, []string{items[0].City, items[1].City, items[2].City})

	latest, ok, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "third", latest.City)
	require.Equal(t, int64(2), latest.ID)
}

func TestMemoryAuditLogRecordAndPurge(t *testing.T) {
	ctx := context.Background()
	audit := NewMemoryAuditLog()
	now := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, audit.Record(ctx, weather.APICall{CalledAt: now.AddDate(0, 0, -40), Service: "openweathermap"}))
	require.NoError(t, audit.Record(ctx, weather.APICall{CalledAt: now, Service: "openweathermap", Success: true}))

	calls := audit.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, int64(1), calls[0].ID)

	deleted, err := audit.DeleteOlderThan(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
	require.Len(t, audit.Calls(), 1)
	require.True(t, audit.Calls()[0].Success)
}
