package archive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/opsdash/internal/domain/retention"
)

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte, string) error {
	return errors.New("access denied")
}

func TestReportArchiveSave(t *testing.T) {
	store := NewMemoryStore()
	archive := NewReportArchive(store, "")
	report := retention.Report{
		RanAt: time.Date(2024, 7, 10, 7, 0, 0, 0, time.UTC),
		Tables: []retention.TableResult{
			{Table: retention.TableSystemStats, Days: 3, Deleted: 864},
			{Table: retention.TableWeather, Days: 7, Error: "lock timeout"},
		},
	}

	require.NoError(t, archive.Save(context.Background(), report))

	data, ok := store.Object("retention/2024-07-10.json")
	require.True(t, ok)
	var decoded retention.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, report.Tables, decoded.Tables)
	require.True(t, decoded.RanAt.Equal(report.RanAt))
}

func TestReportArchiveSaveFailure(t *testing.T) {
	archive := NewReportArchive(failingStore{}, "sweeps")
	err := archive.Save(context.Background(), retention.Report{RanAt: time.Now()})
	require.ErrorContains(t, err, "access denied")
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "minio:9000", sanitizeEndpoint(" minio:9000 "))
}
