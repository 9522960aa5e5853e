package util

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-3, 0, 100))
	require.Equal(t, 100.0, Clamp(140, 0, 100))
	require.Equal(t, 42.5, Clamp(42.5, 0, 100))
	require.Equal(t, 0.0, Clamp(math.NaN(), 0, 100))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 12.35, Round2(12.345678))
	require.Equal(t, 3.0, Round2(3))
}

func TestClampLimit(t *testing.T) {
	require.Equal(t, 12, ClampLimit(0, 12, 288))
	require.Equal(t, 12, ClampLimit(-5, 12, 288))
	require.Equal(t, 288, ClampLimit(1000, 12, 288))
	require.Equal(t, 1, ClampLimit(1, 12, 288))
}

func TestBestEffortSwallowsErrorsAndPanics(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	BestEffort(context.Background(), log, "failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.Contains(t, buf.String(), "op=failing")
	require.Contains(t, buf.String(), "boom")

	buf.Reset()
	require.NotPanics(t, func() {
		BestEffort(context.Background(), log, "panicking", func(ctx context.Context) error {
			panic("kaboom")
		})
	})
	require.Contains(t, buf.String(), "panic: kaboom")

	buf.Reset()
	BestEffort(context.Background(), log, "fine", func(ctx context.Context) error { return nil })
	require.Empty(t, buf.String())
}

type stamped struct {
	id int64
	at time.Time
}

func TestNewestFirst(t *testing.T) {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := []stamped{
		{id: 1, at: base},
		{id: 2, at: base.Add(time.Hour)},
		{id: 3, at: base.Add(time.Hour)},
		{id: 4, at: base.Add(-time.Hour)},
	}
	key := func(s stamped) (time.Time, int64) { return s.at, s.id }

	got := NewestFirst(rows, 3, key)
	require.Equal(t, []int64{3, 2, 1}, ids(got))
	require.Equal(t, []int64{3, 2, 1, 4}, ids(NewestFirst(rows, 0, key)))
	require.Equal(t, int64(1), rows[0].id)
	require.NotNil(t, NewestFirst[stamped](nil, 5, key))
}

func ids(rows []stamped) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}
