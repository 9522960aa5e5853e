package sysstats

import "context"

// Repository is the append-only store for snapshots.
type Repository interface {
	Insert(ctx context.Context, snap Snapshot) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, bool, error)
	History(ctx context.Context, limit int) ([]Snapshot, error)
}

// LatestCache keeps the most recent snapshot close at hand.
type LatestCache interface {
	Get(ctx context.Context) (Snapshot, bool, error)
	Set(ctx context.Context, snap Snapshot) error
}

// Probe reads raw host counters. Implementations are platform specific and report
// unsupported readings as errors.
type Probe interface {
	CPUTimes(ctx context.Context) (CPUTimes, error)
	LoadAverage(ctx context.Context) (float64, error)
	LogicalCores(ctx context.Context) (int, error)
	Memory(ctx context.Context) (MemoryUsage, error)
	Disk(ctx context.Context, path string) (DiskUsage, error)
	CPUTemperature(ctx context.Context) (float64, error)
}
