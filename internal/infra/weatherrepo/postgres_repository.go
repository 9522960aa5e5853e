package weatherrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/opsdash/internal/domain/weather"
)

// PostgresRepository implements weather.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const snapshotColumns = `id, fetched_at, city, country, temp_f, feels_like_f, temp_min_f, temp_max_f,
	humidity, pressure, description, icon_code, wind_speed_mph, wind_deg, visibility_mi,
	sunrise_utc, sunset_utc`

// Insert appends one snapshot and returns it with its id.
func (r *PostgresRepository) Insert(ctx context.Context, snap weather.Snapshot) (weather.Snapshot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO weather_data
			(fetched_at, city, country, temp_f, feels_like_f, temp_min_f, temp_max_f,
			 humidity, pressure, description, icon_code, wind_speed_mph, wind_deg,
			 visibility_mi, sunrise_utc, sunset_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+snapshotColumns,
		snap.FetchedAt, snap.City, snap.Country, snap.TempF, snap.FeelsLikeF, snap.TempMinF, snap.TempMaxF,
		snap.Humidity, snap.Pressure, snap.Description, snap.IconCode, snap.WindSpeedMPH, snap.WindDeg,
		snap.VisibilityMi, snap.SunriseUTC, snap.SunsetUTC,
	)
	return scanSnapshot(row)
}

// Latest returns the most recent snapshot.
func (r *PostgresRepository) Latest(ctx context.Context) (weather.Snapshot, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM weather_data
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`)
	if err != nil {
		return weather.Snapshot{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return weather.Snapshot{}, false, rows.Err()
	}
	snap, err := scanSnapshot(rows)
	if err != nil {
		return weather.Snapshot{}, false, err
	}
	return snap, true, rows.Err()
}

// History returns up to limit snapshots, most recent first.
func (r *PostgresRepository) History(ctx context.Context, limit int) ([]weather.Snapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM weather_data
		ORDER BY fetched_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]weather.Snapshot, 0, limit)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes snapshots fetched before cutoff.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM weather_data WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (weather.Snapshot, error) {
	var (
		snap        weather.Snapshot
		description *string
		icon        *string
	)
	if err := row.Scan(
		&snap.ID,
		&snap.FetchedAt,
		&snap.City,
		&snap.Country,
		&snap.TempF,
		&snap.FeelsLikeF,
		&snap.TempMinF,
		&snap.TempMaxF,
		&snap.Humidity,
		&snap.Pressure,
		&description,
		&icon,
		&snap.WindSpeedMPH,
		&snap.WindDeg,
		&snap.VisibilityMi,
		&snap.SunriseUTC,
		&snap.SunsetUTC,
	); err != nil {
		return weather.Snapshot{}, err
	}
	if description != nil {
		snap.Description = *description
	}
	if icon != nil {
		snap.IconCode = *icon
	}
	snap.FetchedAt = snap.FetchedAt.UTC()
	return snap, nil
}

var _ weather.Repository = (*PostgresRepository)(nil)
