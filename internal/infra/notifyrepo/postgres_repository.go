package notifyrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/opsdash/internal/domain/notify"
)

// PostgresRepository implements notify.FireLog on notifications_log.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts one fired notification.
func (r *PostgresRepository) Record(ctx context.Context, rec notify.FireRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications_log (fired_at, notification_type, client_ip)
		VALUES ($1, $2, $3)
	`, rec.FiredAt, rec.Type, rec.ClientIP)
	return err
}

// DeleteOlderThan removes rows fired before cutoff.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications_log WHERE fired_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ notify.FireLog = (*PostgresRepository)(nil)
