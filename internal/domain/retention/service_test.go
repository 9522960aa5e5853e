package retention

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	rows  []time.Time
	err   error
	calls int
}

func (f *fakeTable) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	kept := f.rows[:0]
	var deleted int64
	for _, ts := range f.rows {
		if ts.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ts)
	}
	f.rows = kept
	return deleted, nil
}

type captureSink struct {
	reports []Report
	err     error
}

func (c *captureSink) Save(_ context.Context, r Report) error {
	c.reports = append(c.reports, r)
	return c.err
}

var sweepAt = time.Date(2024, 7, 10, 7, 0, 0, 0, time.UTC)

func newSweeper(targets []Target, sink ReportSink) *service {
	svc := NewService(targets, sink, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return sweepAt }
	return svc
}

func TestRunCleanupHorizonBoundary(t *testing.T) {
	day := 24 * time.Hour
	stats := &fakeTable{rows: []time.Time{
		sweepAt.Add(-3 * day),                 // exactly at the horizon
		sweepAt.Add(-3*day - time.Nanosecond), // just past it
		sweepAt.Add(-3*day + time.Second),     // inside
		sweepAt.Add(-10 * day),
	}}
	svc := newSweeper([]Target{{Table: TableSystemStats, Days: 3, Purger: stats}}, nil)

	for i := 0; i < 3; i++ {
		report, err := svc.RunCleanup(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Tables, 1)
		require.Equal(t, sweepAt.Add(-3*day), report.Tables[0].Cutoff)
		if i == 0 {
			require.Equal(t, int64(2), report.Tables[0].Deleted)
		} else {
			require.Zero(t, report.Tables[0].Deleted)
		}
		require.Equal(t, []time.Time{sweepAt.Add(-3 * day), sweepAt.Add(-3*day + time.Second)}, stats.rows)
	}
}

func TestRunCleanupTablesAreIndependent(t *testing.T) {
	old := sweepAt.Add(-60 * 24 * time.Hour)
	weather := &fakeTable{rows: []time.Time{old}}
	stats := &fakeTable{err: errors.New("lock timeout")}
	apiLog := &fakeTable{rows: []time.Time{old, old}}
	notifications := &fakeTable{rows: []time.Time{old}}

	targets := Targets(Config{}, Purgers{
		Weather:       weather,
		SystemStats:   stats,
		APICallLog:    apiLog,
		Notifications: notifications,
	})
	sink := &captureSink{}
	svc := newSweeper(targets, sink)

	report, err := svc.RunCleanup(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "system_stats: lock timeout")
	require.True(t, report.Failed())

	require.Equal(t, 1, weather.calls)
	require.Equal(t, 1, stats.calls)
	require.Equal(t, 1, apiLog.calls)
	require.Equal(t, 1, notifications.calls)

	require.Len(t, report.Tables, 4)
	require.Equal(t, int64(1), report.Tables[0].Deleted)
	require.Equal(t, "lock timeout", report.Tables[1].Error)
	require.Equal(t, int64(2), report.Tables[2].Deleted)
	require.Equal(t, NotificationDays, report.Tables[3].Days)
	require.Equal(t, int64(1), report.Tables[3].Deleted)

	require.Len(t, sink.reports, 1)
	require.Equal(t, report, sink.reports[0])
}

func TestTargetsDefaults(t *testing.T) {
	targets := Targets(Config{}, Purgers{})
	require.Len(t, targets, 4)
	require.Equal(t, 7, targets[0].Days)
	require.Equal(t, 3, targets[1].Days)
	require.Equal(t, 30, targets[2].Days)
	require.Equal(t, 30, targets[3].Days)

	targets = Targets(Config{WeatherDays: 14, StatsDays: 1, APILogDays: 90}, Purgers{})
	require.Equal(t, 14, targets[0].Days)
	require.Equal(t, 1, targets[1].Days)
	require.Equal(t, 90, targets[2].Days)
}

func TestRunCleanupSkipsUnboundTargets(t *testing.T) {
	stats := &fakeTable{}
	svc := newSweeper([]Target{
		{Table: TableWeather, Days: 7},
		{Table: TableSystemStats, Days: 3, Purger: stats},
	}, nil)

	report, err := svc.RunCleanup(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Tables, 1)
	require.Equal(t, TableSystemStats, report.Tables[0].Table)
}

func TestRunCleanupSinkFailureIgnored(t *testing.T) {
	sink := &captureSink{err: errors.New("bucket missing")}
	svc := newSweeper([]Target{{Table: TableWeather, Days: 7, Purger: &fakeTable{}}}, sink)

	report, err := svc.RunCleanup(context.Background())
	require.NoError(t, err)
	require.False(t, report.Failed())
	require.Len(t, sink.reports, 1)
}
