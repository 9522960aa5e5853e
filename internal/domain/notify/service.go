package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/opsdash/pkg/util"
)

// FireLog appends notification audit rows.
type FireLog interface {
	Record(ctx context.Context, rec FireRecord) error
}

// Service evaluates reminder windows on demand.
type Service interface {
	Schedule() []ScheduleEntry
	Active(ctx context.Context, clientIP string) Status
}

type service struct {
	eval   *Evaluator
	log    FireLog
	logger *slog.Logger
	now    func() time.Time
}

// NewService loads the configured zone and binds the windows. log may be nil.
func NewService(cfg Config, windows []Window, log FireLog, logger *slog.Logger) (Service, error) {
	cfg = cfg.withDefaults()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load notification timezone %q: %w", cfg.Timezone, err)
	}
	return &service{
		eval:   NewEvaluator(loc, cfg.ZoneLabel, windows),
		log:    log,
		logger: logger.With("component", "notify.service"),
		now:    util.NowUTC,
	}, nil
}

func (s *service) Schedule() []ScheduleEntry {
	return s.eval.Schedule()
}

// Active evaluates wall-clock time and records one log row per active window.
func (s *service) Active(ctx context.Context, clientIP string) Status {
	now := s.now()
	active := s.eval.ActiveWindows(now)
	if s.log != nil {
		logCtx := context.WithoutCancel(ctx)
		for _, a := range active {
			rec := FireRecord{FiredAt: now, Type: a.Type, ClientIP: clientIP}
			util.BestEffort(logCtx, s.logger, "notify.log.record", func(ctx context.Context) error {
				return s.log.Record(ctx, rec)
			})
		}
	}
	local := now.In(s.eval.Location())
	return Status{
		ServerTime: local,
		DayOfWeek:  local.Weekday().String(),
		Active:     active,
	}
}
