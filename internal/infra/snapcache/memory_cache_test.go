package snapcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/opsdash/internal/domain/sysstats"
	"github.com/yanqian/opsdash/internal/domain/weather"
)

var (
	_ sysstats.LatestCache = (*MemoryCache[sysstats.Snapshot])(nil)
	_ weather.LatestCache  = (*MemoryCache[weather.Snapshot])(nil)
	_ sysstats.LatestCache = (*ValkeyCache[sysstats.Snapshot])(nil)
	_ weather.LatestCache  = (*ValkeyCache[weather.Snapshot])(nil)
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	cache := NewMemoryCache[sysstats.Snapshot](time.Minute)
	cache.now = func() time.Time { return now }

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, sysstats.Snapshot{ID: 7, CPUPercent: 12.5}))
	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), got.ID)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheNoTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache[weather.Snapshot](0)
	require.NoError(t, cache.Set(ctx, weather.Snapshot{City: "Dallas"}))
	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Dallas", got.City)
}

func TestNewValkeyCacheKey(t *testing.T) {
	c := NewValkeyCache[weather.Snapshot](nil, "", "weather", time.Minute)
	require.Equal(t, "opsdash:weather:latest", c.key)
}
