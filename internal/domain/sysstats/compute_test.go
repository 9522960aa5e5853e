package sysstats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPUPercent(t *testing.T) {
	prev := CPUTimes{User: 100, System: 50, Idle: 800, IOWait: 50}
	cur := CPUTimes{User: 130, System: 60, Idle: 850, IOWait: 60}

	pct, ok := CPUPercent(prev, cur)
	require.True(t, ok)
	// total delta 100, idle delta 60
	require.Equal(t, 40.0, pct)
}

func TestCPUPercentStalledCounters(t *testing.T) {
	same := CPUTimes{User: 10, Idle: 90}
	pct, ok := CPUPercent(same, same)
	require.False(t, ok)
	require.Zero(t, pct)
}

func TestCPUPercentAlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		prev := CPUTimes{
			User:   rng.Float64() * 1e6,
			System: rng.Float64() * 1e6,
			Idle:   rng.Float64() * 1e6,
			IOWait: rng.Float64() * 1e5,
			Steal:  rng.Float64() * 1e4,
		}
		cur := prev
		cur.User += rng.Float64() * 100
		cur.System += rng.Float64() * 100
		cur.Idle += rng.Float64() * 100
		cur.IOWait += rng.Float64() * 10
		cur.Steal += rng.Float64() * 5

		pct, ok := CPUPercent(prev, cur)
		if !ok {
			continue
		}
		require.GreaterOrEqual(t, pct, 0.0)
		require.LessOrEqual(t, pct, 100.0)
	}
}

func TestLoadPercent(t *testing.T) {
	require.Equal(t, 50.0, LoadPercent(2, 4))
	require.Equal(t, 100.0, LoadPercent(12, 4))
	require.Equal(t, 75.0, LoadPercent(0.75, 0))
	require.Equal(t, 0.0, LoadPercent(-1, 2))
}

func TestMemoryFields(t *testing.T) {
	fields := memoryFieldsFrom(MemoryUsage{Total: 8 * bytesPerGB, Free: 2 * bytesPerGB})
	require.Equal(t, 75.0, fields.percent)
	require.Equal(t, int64(6144), fields.usedMB)
	require.Equal(t, int64(8192), fields.totalMB)

	require.Equal(t, memoryFields{}, memoryFieldsFrom(MemoryUsage{}))
}

func TestDiskFields(t *testing.T) {
	fields := diskFieldsFrom(DiskUsage{Total: 64 * bytesPerGB, Used: 16 * bytesPerGB})
	require.Equal(t, 25.0, fields.percent)
	require.Equal(t, 16.0, fields.usedGB)
	require.Equal(t, 64.0, fields.totalGB)
}
