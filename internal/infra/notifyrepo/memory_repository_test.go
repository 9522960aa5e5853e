package notifyrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/opsdash/internal/domain/notify"
	"github.com/yanqian/opsdash/internal/domain/retention"
)

var _ retention.Purger = (*MemoryRepository)(nil)

func TestMemoryRepositoryRecordAndPurge(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	now := time.Date(2024, 7, 31, 14, 2, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, notify.FireRecord{FiredAt: now.AddDate(0, 0, -31), Type: "checkin", ClientIP: "10.0.0.1"}))
	require.NoError(t, repo.Record(ctx, notify.FireRecord{FiredAt: now, Type: "checkin", ClientIP: "10.0.0.2"}))

	deleted, err := repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -retention.NotificationDays))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	records := repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, "10.0.0.2", records[0].ClientIP)
	require.Equal(t, int64(2), records[0].ID)
}
