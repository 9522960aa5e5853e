package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the snapshot and audit tables. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS system_stats (
	id            BIGSERIAL PRIMARY KEY,
	captured_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	cpu_percent   DOUBLE PRECISION NOT NULL,
	ram_percent   DOUBLE PRECISION NOT NULL,
	disk_percent  DOUBLE PRECISION NOT NULL DEFAULT 0,
	cpu_temp_c    DOUBLE PRECISION,
	ram_used_mb   BIGINT NOT NULL,
	ram_total_mb  BIGINT NOT NULL,
	disk_used_gb  DOUBLE PRECISION NOT NULL DEFAULT 0,
	disk_total_gb DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_system_stats_captured_at ON system_stats (captured_at);

CREATE TABLE IF NOT EXISTS weather_data (
	id             BIGSERIAL PRIMARY KEY,
	fetched_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	city           TEXT NOT NULL,
	country        TEXT NOT NULL,
	temp_f         DOUBLE PRECISION,
	feels_like_f   DOUBLE PRECISION,
	temp_min_f     DOUBLE PRECISION,
	temp_max_f     DOUBLE PRECISION,
	humidity       DOUBLE PRECISION,
	pressure       DOUBLE PRECISION,
	description    TEXT,
	icon_code      TEXT,
	wind_speed_mph DOUBLE PRECISION,
	wind_deg       DOUBLE PRECISION,
	visibility_mi  DOUBLE PRECISION,
	sunrise_utc    BIGINT,
	sunset_utc     BIGINT
);
CREATE INDEX IF NOT EXISTS idx_weather_data_fetched_at ON weather_data (fetched_at);

CREATE TABLE IF NOT EXISTS api_call_log (
	id            BIGSERIAL PRIMARY KEY,
	called_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	service       TEXT NOT NULL,
	endpoint      VARCHAR(500),
	status_code   INTEGER,
	response_ms   BIGINT,
	success       BOOLEAN NOT NULL DEFAULT FALSE,
	error_message TEXT
);
CREATE INDEX IF NOT EXISTS idx_api_call_log_called_at ON api_call_log (called_at);

CREATE TABLE IF NOT EXISTS notifications_log (
	id                BIGSERIAL PRIMARY KEY,
	fired_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	notification_type TEXT NOT NULL,
	client_ip         TEXT
);
CREATE INDEX IF NOT EXISTS idx_notifications_log_fired_at ON notifications_log (fired_at);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
