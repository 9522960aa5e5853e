package weatherrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/opsdash/internal/domain/weather"
)

// PostgresAuditLog implements weather.AuditLog on api_call_log.
type PostgresAuditLog struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditLog constructs the audit log.
func NewPostgresAuditLog(pool *pgxpool.Pool) *PostgresAuditLog {
	return &PostgresAuditLog{pool: pool}
}

// Record inserts one call outcome.
func (a *PostgresAuditLog) Record(ctx context.Context, call weather.APICall) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO api_call_log
			(called_at, service, endpoint, status_code, response_ms, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, call.CalledAt, call.Service, call.Endpoint, call.StatusCode, call.ResponseMS, call.Success, call.ErrorMessage)
	return err
}

// DeleteOlderThan removes audit rows recorded before cutoff.
func (a *PostgresAuditLog) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM api_call_log WHERE called_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ weather.AuditLog = (*PostgresAuditLog)(nil)
