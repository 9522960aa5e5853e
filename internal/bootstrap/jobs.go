package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/opsdash/internal/domain/retention"
	"github.com/yanqian/opsdash/internal/domain/scheduler"
	"github.com/yanqian/opsdash/internal/domain/sysstats"
	"github.com/yanqian/opsdash/internal/domain/weather"
	"github.com/yanqian/opsdash/internal/infra/config"
)

// Job names as they appear in logs.
const (
	JobSystemStats = "system-stats"
	JobWeather     = "weather"
	JobRetention   = "retention"
)

// Jobs binds the recurring producers and the sweeper to their schedules.
func Jobs(cfg config.JobsConfig, stats sysstats.Service, wx weather.Service, sweeper retention.Service) ([]scheduler.Job, error) {
	loc, err := time.LoadLocation(cfg.SweepTimezone)
	if err != nil {
		return nil, fmt.Errorf("load sweep timezone %q: %w", cfg.SweepTimezone, err)
	}
	return []scheduler.Job{
		{
			Name:     JobSystemStats,
			Schedule: scheduler.Every(cfg.StatsInterval),
			Run: func(ctx context.Context) error {
				_, err := stats.Capture(ctx)
				return err
			},
		},
		{
			Name:       JobWeather,
			Schedule:   scheduler.Every(cfg.WeatherInterval),
			RunAtStart: true,
			Run: func(ctx context.Context) error {
				_, _, err := wx.FetchAndStore(ctx)
				return err
			},
		},
		{
			Name:     JobRetention,
			Schedule: scheduler.DailyAt(cfg.SweepHour, cfg.SweepMinute, loc),
			Run: func(ctx context.Context) error {
				_, err := sweeper.RunCleanup(ctx)
				return err
			},
		},
	}, nil
}
