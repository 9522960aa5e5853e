package statsrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/opsdash/internal/domain/sysstats"
)

// PostgresRepository implements sysstats.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const snapshotColumns = `id, captured_at, cpu_percent, ram_percent, disk_percent, cpu_temp_c,
	ram_used_mb, ram_total_mb, disk_used_gb, disk_total_gb`

// Insert appends one snapshot and returns it with its id.
func (r *PostgresRepository) Insert(ctx context.Context, snap sysstats.Snapshot) (sysstats.Snapshot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO system_stats
			(captured_at, cpu_percent, ram_percent, disk_percent, cpu_temp_c,
			 ram_used_mb, ram_total_mb, disk_used_gb, disk_total_gb)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+snapshotColumns,
		snap.CapturedAt, snap.CPUPercent, snap.RAMPercent, snap.DiskPercent, snap.CPUTempC,
		snap.RAMUsedMB, snap.RAMTotalMB, snap.DiskUsedGB, snap.DiskTotalGB,
	)
	return scanSnapshot(row)
}

// Latest returns the most recent snapshot.
func (r *PostgresRepository) Latest(ctx context.Context) (sysstats.Snapshot, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM system_stats
		ORDER BY captured_at DESC, id DESC
		LIMIT 1
	`)
	if err != nil {
		return sysstats.Snapshot{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return sysstats.Snapshot{}, false, rows.Err()
	}
	snap, err := scanSnapshot(rows)
	if err != nil {
		return sysstats.Snapshot{}, false, err
	}
	return snap, true, rows.Err()
}

// History returns up to limit snapshots, most recent first.
func (r *PostgresRepository) History(ctx context.Context, limit int) ([]sysstats.Snapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM system_stats
		ORDER BY captured_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]sysstats.Snapshot, 0, limit)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes snapshots captured before cutoff.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM system_stats WHERE captured_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (sysstats.Snapshot, error) {
	var snap sysstats.Snapshot
	if err := row.Scan(
		&snap.ID,
		&snap.CapturedAt,
		&snap.CPUPercent,
		&snap.RAMPercent,
		&snap.DiskPercent,
		&snap.CPUTempC,
		&snap.RAMUsedMB,
		&snap.RAMTotalMB,
		&snap.DiskUsedGB,
		&snap.DiskTotalGB,
	); err != nil {
		return sysstats.Snapshot{}, err
	}
	snap.CapturedAt = snap.CapturedAt.UTC()
	return snap, nil
}

var _ sysstats.Repository = (*PostgresRepository)(nil)
