package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func types(acts []Activation) []string {
	out := make([]string, 0, len(acts))
	for _, a := range acts {
		out = append(out, a.Type)
	}
	return out
}

func TestActiveWindowsReferenceSchedule(t *testing.T) {
	loc := chicago(t)
	eval := NewEvaluator(loc, DefaultZoneLabel, DefaultWindows)

	// 2024-07-01 is a Monday, 2024-07-05 a Friday.
	cases := []struct {
		name string
		at   time.Time
		want []string
	}{
		{"monday checkin", time.Date(2024, 7, 1, 9, 2, 0, 0, loc), []string{"checkin"}},
		{"monday after checkin", time.Date(2024, 7, 1, 9, 6, 0, 0, loc), []string{}},
		{"monday before checkin", time.Date(2024, 7, 1, 9, 0, 59, 0, loc), []string{}},
		{"friday timesheet", time.Date(2024, 7, 5, 16, 0, 0, 0, loc), []string{"timesheet"}},
		{"friday lunch", time.Date(2024, 7, 5, 12, 15, 30, 0, loc), []string{"lunch"}},
		{"saturday", time.Date(2024, 7, 6, 9, 2, 0, 0, loc), []string{}},
		{"monday checkout", time.Date(2024, 7, 1, 17, 10, 0, 0, loc), []string{"checkout"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, types(eval.ActiveWindows(tc.at)))
		})
	}
}

func TestActiveWindowsInclusiveEnd(t *testing.T) {
	loc := chicago(t)
	eval := NewEvaluator(loc, DefaultZoneLabel, DefaultWindows)

	require.Equal(t, []string{"checkin"}, types(eval.ActiveWindows(time.Date(2024, 7, 1, 9, 5, 0, 0, loc))))
	require.Equal(t, []string{"checkin"}, types(eval.ActiveWindows(time.Date(2024, 7, 1, 9, 5, 59, 0, loc))))
	require.Empty(t, eval.ActiveWindows(time.Date(2024, 7, 1, 9, 6, 0, 0, loc)))
}

func TestActiveWindowsConvertsToZone(t *testing.T) {
	eval := NewEvaluator(chicago(t), DefaultZoneLabel, DefaultWindows)

	// 14:02 UTC on a July Monday is 09:02 CDT.
	at := time.Date(2024, 7, 1, 14, 2, 0, 0, time.UTC)
	require.Equal(t, []string{"checkin"}, types(eval.ActiveWindows(at)))

	// January is CST, six hours behind UTC.
	at = time.Date(2024, 1, 8, 15, 2, 0, 0, time.UTC)
	require.Equal(t, []string{"checkin"}, types(eval.ActiveWindows(at)))
}

func TestSchedule(t *testing.T) {
	eval := NewEvaluator(chicago(t), DefaultZoneLabel, DefaultWindows)

	entries := eval.Schedule()
	require.Len(t, entries, 4)
	require.Equal(t, ScheduleEntry{
		Type:   "checkin",
		Label:  "Daily Check-In Reminder",
		Days:   []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Window: "09:01 – 09:05 CST",
	}, entries[0])
	require.Equal(t, []string{"Friday"}, entries[2].Days)
	require.Equal(t, "16:00 – 16:15 CST", entries[2].Window)
}

type memFireLog struct {
	records []FireRecord
	err     error
}

// Record rejects done contexts the way a pooled database write does.
func (m *memFireLog) Record(ctx context.Context, rec FireRecord) error {
	if m.err != nil {
		return m.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.records = append(m.records, rec)
	return nil
}

func newServiceAt(t *testing.T, log FireLog, at time.Time) *service {
	t.Helper()
	svc, err := NewService(Config{}, DefaultWindows, log, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return at }
	return s
}

func TestServiceActiveRecordsEachWindow(t *testing.T) {
	log := &memFireLog{}
	at := time.Date(2024, 7, 5, 21, 5, 0, 0, time.UTC) // Friday 16:05 CDT
	svc := newServiceAt(t, log, at)

	status := svc.Active(context.Background(), "10.0.0.7")
	require.Equal(t, "Friday", status.DayOfWeek)
	require.Equal(t, []string{"timesheet"}, types(status.Active))
	require.Equal(t, "America/Chicago", status.ServerTime.Location().String())
	require.True(t, status.ServerTime.Equal(at))

	require.Len(t, log.records, 1)
	require.Equal(t, FireRecord{FiredAt: at, Type: "timesheet", ClientIP: "10.0.0.7"}, log.records[0])
}

func TestServiceActiveRecordsAfterCallerCancels(t *testing.T) {
	log := &memFireLog{}
	svc := newServiceAt(t, log, time.Date(2024, 7, 1, 14, 3, 0, 0, time.UTC)) // Monday 09:03 CDT

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	status := svc.Active(ctx, "10.0.0.7")
	require.Equal(t, []string{"checkin"}, types(status.Active))
	require.Len(t, log.records, 1)
}

func TestServiceActiveIgnoresLogFailure(t *testing.T) {
	log := &memFireLog{err: errors.New("db down")}
	svc := newServiceAt(t, log, time.Date(2024, 7, 1, 14, 3, 0, 0, time.UTC))

	status := svc.Active(context.Background(), "10.0.0.7")
	require.Equal(t, []string{"checkin"}, types(status.Active))
}

func TestServiceActiveNothingToRecord(t *testing.T) {
	log := &memFireLog{}
	svc := newServiceAt(t, log, time.Date(2024, 7, 7, 14, 3, 0, 0, time.UTC))

	status := svc.Active(context.Background(), "10.0.0.7")
	require.Equal(t, "Sunday", status.DayOfWeek)
	require.Empty(t, status.Active)
	require.Empty(t, log.records)
}

func TestNewServiceRejectsUnknownZone(t *testing.T) {
	_, err := NewService(Config{Timezone: "Mars/Olympus"}, DefaultWindows, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
