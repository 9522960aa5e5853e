package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/opsdash/pkg/util"
)

// Service bounds storage growth by deleting rows past each table's horizon.
type Service interface {
	RunCleanup(ctx context.Context) (Report, error)
}

type service struct {
	targets []Target
	sink    ReportSink
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds a sweeper over targets. sink may be nil.
func NewService(targets []Target, sink ReportSink, logger *slog.Logger) Service {
	return &service{
		targets: targets,
		sink:    sink,
		logger:  logger.With("component", "retention.service"),
		now:     util.NowUTC,
	}
}

// Cutoff is the instant before which rows are older than days. A row exactly days
// old is kept.
func Cutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// RunCleanup attempts every table regardless of earlier failures. The returned error
// joins the per-table failures.
func (s *service) RunCleanup(ctx context.Context) (Report, error) {
	now := s.now()
	report := Report{RanAt: now, Tables: make([]TableResult, 0, len(s.targets))}
	var errs []error

	for _, t := range s.targets {
		if t.Purger == nil || t.Days <= 0 {
			s.logger.Warn("retention target skipped", "table", t.Table, "days", t.Days)
			continue
		}
		res := TableResult{Table: t.Table, Days: t.Days, Cutoff: Cutoff(now, t.Days)}
		deleted, err := t.Purger.DeleteOlderThan(ctx, res.Cutoff)
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", t.Table, err))
			s.logger.Error("retention delete failed", "table", t.Table, "error", err)
		} else {
			res.Deleted = deleted
		}
		report.Tables = append(report.Tables, res)
	}

	attrs := make([]any, 0, len(report.Tables)*2)
	for _, r := range report.Tables {
		attrs = append(attrs, r.Table+"_deleted", r.Deleted)
	}
	s.logger.Info("retention sweep completed", attrs...)

	if s.sink != nil {
		util.BestEffort(ctx, s.logger, "retention.report.save", func(ctx context.Context) error {
			return s.sink.Save(ctx, report)
		})
	}
	return report, errors.Join(errs...)
}
