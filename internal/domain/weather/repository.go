package weather

import "context"

// Repository is the append-only store for snapshots.
type Repository interface {
	Insert(ctx context.Context, snap Snapshot) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, bool, error)
	History(ctx context.Context, limit int) ([]Snapshot, error)
}

// AuditLog records external call outcomes.
type AuditLog interface {
	Record(ctx context.Context, call APICall) error
}

// LatestCache keeps the most recent snapshot close at hand.
type LatestCache interface {
	Get(ctx context.Context) (Snapshot, bool, error)
	Set(ctx context.Context, snap Snapshot) error
}

// Provider fetches current conditions from one external weather API.
type Provider interface {
	Name() string
	// Endpoint renders the request target with credentials redacted.
	Endpoint(q Query) string
	Current(ctx context.Context, q Query) (Result, error)
}
