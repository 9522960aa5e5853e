package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/opsdash/pkg/errors"
	"github.com/yanqian/opsdash/pkg/util"
)

// Service fetches, persists, and serves weather snapshots.
type Service interface {
	// FetchAndStore returns ok=false without error when no API key is configured.
	FetchAndStore(ctx context.Context) (Snapshot, bool, error)
	Latest(ctx context.Context) (Snapshot, bool, error)
	History(ctx context.Context, limit int) ([]Snapshot, error)
	Enabled() bool
}

type service struct {
	cfg      Config
	provider Provider
	repo     Repository
	audit    AuditLog
	cache    LatestCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the weather fetcher. cache may be nil.
func NewService(cfg Config, provider Provider, repo Repository, audit AuditLog, cache LatestCache, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg.withDefaults(),
		provider: provider,
		repo:     repo,
		audit:    audit,
		cache:    cache,
		logger:   logger.With("component", "weather.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Enabled() bool {
	return strings.TrimSpace(s.cfg.APIKey) != ""
}

func (s *service) FetchAndStore(ctx context.Context) (Snapshot, bool, error) {
	if !s.Enabled() {
		s.logger.Warn("weather api key not set, skipping weather fetch")
		return Snapshot{}, false, nil
	}
	q := Query{
		City:    s.cfg.City,
		Country: s.cfg.Country,
		Units:   s.cfg.Units,
		APIKey:  s.cfg.APIKey,
	}
	call := APICall{
		CalledAt: s.now(),
		Service:  s.provider.Name(),
		Endpoint: truncate(s.provider.Endpoint(q), MaxEndpointLen),
	}

	res, err := s.provider.Current(ctx, q)
	call.ResponseMS = s.now().Sub(call.CalledAt).Milliseconds()
	if err != nil {
		msg := err.Error()
		call.StatusCode = statusOf(err)
		call.ErrorMessage = &msg
		s.record(ctx, call)
		s.logger.Error("weather fetch failed", "city", q.City, "status", call.StatusCode, "error", err)
		return Snapshot{}, false, apperrors.Wrap(apperrors.CodeUpstream, "weather fetch failed", err)
	}
	status := res.StatusCode
	call.StatusCode = &status
	call.Success = true
	s.record(ctx, call)

	snap := res.Snapshot
	snap.FetchedAt = s.now()
	stored, err := s.repo.Insert(ctx, snap)
	if err != nil {
		return Snapshot{}, false, apperrors.Wrap(apperrors.CodePersistence, "failed to store weather snapshot", err)
	}
	if s.cache != nil {
		util.BestEffort(ctx, s.logger, "weather.cache.set", func(ctx context.Context) error {
			return s.cache.Set(ctx, stored)
		})
	}
	s.logger.Debug("weather stored", "city", stored.City, "temp_f", stored.TempF, "response_ms", call.ResponseMS)
	return stored, true, nil
}

func (s *service) Latest(ctx context.Context) (Snapshot, bool, error) {
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("latest cache read failed, using store", "error", err)
		} else if ok {
			return snap, true, nil
		}
	}
	snap, ok, err := s.repo.Latest(ctx)
	if err != nil {
		return Snapshot{}, false, apperrors.Wrap(apperrors.CodePersistence, "failed to load latest weather", err)
	}
	return snap, ok, nil
}

func (s *service) History(ctx context.Context, limit int) ([]Snapshot, error) {
	limit = util.ClampLimit(limit, s.cfg.HistoryDefault, s.cfg.HistoryMax)
	items, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistence, "failed to load weather history", err)
	}
	return items, nil
}

// record writes the audit row. A failed audit write never fails the fetch, and a
// cancelled caller still gets its attempt audited.
func (s *service) record(ctx context.Context, call APICall) {
	util.BestEffort(context.WithoutCancel(ctx), s.logger, "weather.audit.record", func(ctx context.Context) error {
		return s.audit.Record(ctx, call)
	})
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
