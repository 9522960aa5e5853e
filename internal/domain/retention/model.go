package retention

import (
	"context"
	"time"
)

// Table names swept by the default configuration.
const (
	TableWeather       = "weather_data"
	TableSystemStats   = "system_stats"
	TableAPICallLog    = "api_call_log"
	TableNotifications = "notifications_log"
)

// NotificationDays is the fixed horizon for notifications_log.
const NotificationDays = 30

// Config holds the configurable horizons in days.
type Config struct {
	WeatherDays int
	StatsDays   int
	APILogDays  int
}

func (c Config) withDefaults() Config {
	if c.WeatherDays <= 0 {
		c.WeatherDays = 7
	}
	if c.StatsDays <= 0 {
		c.StatsDays = 3
	}
	if c.APILogDays <= 0 {
		c.APILogDays = 30
	}
	return c
}

// Purger deletes rows whose timestamp is strictly before cutoff.
type Purger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Target binds one table to its horizon.
type Target struct {
	Table  string
	Days   int
	Purger Purger
}

// TableResult is the outcome of one table's delete.
type TableResult struct {
	Table   string    `json:"table"`
	Days    int       `json:"days"`
	Cutoff  time.Time `json:"cutoff"`
	Deleted int64     `json:"deleted"`
	Error   string    `json:"error,omitempty"`
}

// Report summarizes one sweep.
type Report struct {
	RanAt  time.Time     `json:"ran_at"`
	Tables []TableResult `json:"tables"`
}

// Failed reports whether any table delete failed.
func (r Report) Failed() bool {
	for _, t := range r.Tables {
		if t.Error != "" {
			return true
		}
	}
	return false
}

// ReportSink stores sweep reports.
type ReportSink interface {
	Save(ctx context.Context, report Report) error
}

// Purgers carries one Purger per persisted table.
type Purgers struct {
	Weather       Purger
	SystemStats   Purger
	APICallLog    Purger
	Notifications Purger
}

// Targets builds the four default targets from cfg.
func Targets(cfg Config, p Purgers) []Target {
	cfg = cfg.withDefaults()
	return []Target{
		{Table: TableWeather, Days: cfg.WeatherDays, Purger: p.Weather},
		{Table: TableSystemStats, Days: cfg.StatsDays, Purger: p.SystemStats},
		{Table: TableAPICallLog, Days: cfg.APILogDays, Purger: p.APICallLog},
		{Table: TableNotifications, Days: NotificationDays, Purger: p.Notifications},
	}
}
