package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/opsdash/internal/bootstrap"
	"github.com/yanqian/opsdash/internal/domain/auth"
	"github.com/yanqian/opsdash/internal/domain/notify"
	"github.com/yanqian/opsdash/internal/domain/retention"
	"github.com/yanqian/opsdash/internal/domain/scheduler"
	"github.com/yanqian/opsdash/internal/domain/sysstats"
	"github.com/yanqian/opsdash/internal/domain/weather"
	"github.com/yanqian/opsdash/internal/infra/archive"
	"github.com/yanqian/opsdash/internal/infra/config"
	"github.com/yanqian/opsdash/internal/infra/hostprobe"
	"github.com/yanqian/opsdash/internal/infra/notifyrepo"
	"github.com/yanqian/opsdash/internal/infra/postgres"
	"github.com/yanqian/opsdash/internal/infra/snapcache"
	"github.com/yanqian/opsdash/internal/infra/statsrepo"
	"github.com/yanqian/opsdash/internal/infra/weather/openweather"
	"github.com/yanqian/opsdash/internal/infra/weatherrepo"
)

type statsStore interface {
	sysstats.Repository
	retention.Purger
}

type weatherStore interface {
	weather.Repository
	retention.Purger
}

type auditStore interface {
	weather.AuditLog
	retention.Purger
}

type fireStore interface {
	notify.FireLog
	retention.Purger
}

// stores groups the four persisted tables behind one backend.
type stores struct {
	Stats   statsStore
	Weather weatherStore
	Audit   auditStore
	Fires   fireStore
}

func providePool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	pgCfg := postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	}
	if !pgCfg.Enabled() {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}, nil
	}
	ctx := context.Background()
	pool, err := postgres.Open(ctx, pgCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close, nil
}

func provideStores(pool *pgxpool.Pool) stores {
	if pool == nil {
		return stores{
			Stats:   statsrepo.NewMemoryRepository(),
			Weather: weatherrepo.NewMemoryRepository(),
			Audit:   weatherrepo.NewMemoryAuditLog(),
			Fires:   notifyrepo.NewMemoryRepository(),
		}
	}
	return stores{
		Stats:   statsrepo.NewPostgresRepository(pool),
		Weather: weatherrepo.NewPostgresRepository(pool),
		Audit:   weatherrepo.NewPostgresAuditLog(pool),
		Fires:   notifyrepo.NewPostgresRepository(pool),
	}
}

// provideValkeyClient returns a nil client when the cache is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey cache enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideStatsCache(cfg *config.Config, client valkey.Client) sysstats.LatestCache {
	if client == nil {
		return snapcache.NewMemoryCache[sysstats.Snapshot](cfg.Valkey.TTL)
	}
	return snapcache.NewValkeyCache[sysstats.Snapshot](client, "", "system_stats", cfg.Valkey.TTL)
}

func provideWeatherCache(cfg *config.Config, client valkey.Client) weather.LatestCache {
	if client == nil {
		return snapcache.NewMemoryCache[weather.Snapshot](cfg.Valkey.TTL)
	}
	return snapcache.NewValkeyCache[weather.Snapshot](client, "", "weather", cfg.Valkey.TTL)
}

func provideSysStatsService(cfg *config.Config, s stores, cache sysstats.LatestCache, logger *slog.Logger) sysstats.Service {
	probe := hostprobe.New(cfg.SysStats.ThermalPath)
	return sysstats.NewService(sysstats.Config{
		SampleWindow:   cfg.SysStats.SampleWindow,
		DiskPath:       cfg.SysStats.DiskPath,
		HistoryDefault: cfg.SysStats.HistoryDefault,
		HistoryMax:     cfg.SysStats.HistoryMax,
	}, probe, s.Stats, cache, logger)
}

func provideWeatherService(cfg *config.Config, s stores, cache weather.LatestCache, logger *slog.Logger) weather.Service {
	client := openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
	return weather.NewService(weather.Config{
		APIKey:         cfg.Weather.APIKey,
		City:           cfg.Weather.City,
		Country:        cfg.Weather.Country,
		Units:          cfg.Weather.Units,
		HistoryDefault: cfg.Weather.HistoryDefault,
		HistoryMax:     cfg.Weather.HistoryMax,
	}, client, s.Weather, s.Audit, cache, logger)
}

func provideNotifyService(cfg *config.Config, s stores, logger *slog.Logger) (notify.Service, error) {
	return notify.NewService(notify.Config{
		Timezone:  cfg.Notify.Timezone,
		ZoneLabel: cfg.Notify.ZoneLabel,
	}, notify.DefaultWindows, s.Fires, logger)
}

// provideReportSink returns nil when archiving is off; reports are then only logged.
func provideReportSink(cfg *config.Config, logger *slog.Logger) (retention.ReportSink, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	store, err := archive.NewS3Store(archive.Config{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		Region:    cfg.Archive.Region,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init report archive: %w", err)
	}
	logger.Info("retention report archive enabled", "bucket", cfg.Archive.Bucket)
	return archive.NewReportArchive(store, cfg.Archive.Prefix), nil
}

func provideRetentionService(cfg *config.Config, s stores, sink retention.ReportSink, logger *slog.Logger) retention.Service {
	targets := retention.Targets(retention.Config{
		WeatherDays: cfg.Retention.WeatherDays,
		StatsDays:   cfg.Retention.StatsDays,
		APILogDays:  cfg.Retention.APILogDays,
	}, retention.Purgers{
		Weather:       s.Weather,
		SystemStats:   s.Stats,
		APICallLog:    s.Audit,
		Notifications: s.Fires,
	})
	return retention.NewService(targets, sink, logger)
}

func provideAuthorizer(cfg *config.Config, logger *slog.Logger) (auth.Authorizer, error) {
	return auth.New(auth.Config{
		Mode:   cfg.Auth.Mode,
		Secret: cfg.Auth.Secret,
	}, logger)
}

func provideScheduler(cfg *config.Config, stats sysstats.Service, wx weather.Service, sweeper retention.Service, logger *slog.Logger) (*scheduler.Scheduler, error) {
	jobs, err := bootstrap.Jobs(cfg.Jobs, stats, wx, sweeper)
	if err != nil {
		return nil, err
	}
	return scheduler.New(scheduler.RealClock{}, logger, jobs...), nil
}
