package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yanqian/opsdash/internal/domain/retention"
)

// ObjectStore is the write side of a blob store.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// ReportArchive saves one JSON document per sweep day.
type ReportArchive struct {
	store  ObjectStore
	prefix string
}

// NewReportArchive writes reports under "<prefix>/YYYY-MM-DD.json".
func NewReportArchive(store ObjectStore, prefix string) *ReportArchive {
	if prefix == "" {
		prefix = "retention"
	}
	return &ReportArchive{store: store, prefix: prefix}
}

// Key names the object for a report.
func (a *ReportArchive) Key(report retention.Report) string {
	return fmt.Sprintf("%s/%s.json", a.prefix, report.RanAt.UTC().Format("2006-01-02"))
}

func (a *ReportArchive) Save(ctx context.Context, report retention.Report) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode retention report: %w", err)
	}
	if err := a.store.Put(ctx, a.Key(report), payload, "application/json"); err != nil {
		return fmt.Errorf("upload retention report: %w", err)
	}
	return nil
}

var _ retention.ReportSink = (*ReportArchive)(nil)
