package sysstats

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/opsdash/pkg/errors"
	"github.com/yanqian/opsdash/pkg/util"
)

// Service captures and serves host resource snapshots.
type Service interface {
	Capture(ctx context.Context) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, bool, error)
	History(ctx context.Context, limit int) ([]Snapshot, error)
}

type service struct {
	cfg    Config
	probe  Probe
	repo   Repository
	cache  LatestCache
	logger *slog.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewService wires the resource sampler. cache may be nil.
func NewService(cfg Config, probe Probe, repo Repository, cache LatestCache, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg.withDefaults(),
		probe:  probe,
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "sysstats.service"),
		now:    util.NowUTC,
		sleep:  sleepContext,
	}
}

type reading struct {
	cpu    float64
	cpuOK  bool
	mem    memoryFields
	memOK  bool
	disk   diskFields
	diskOK bool
	tempC  *float64
}

// Capture samples every sub-reading concurrently, then appends the snapshot.
func (s *service) Capture(ctx context.Context) (Snapshot, error) {
	var (
		r reading
		g errgroup.Group
	)
	g.Go(func() error {
		r.cpu, r.cpuOK = s.readCPU(ctx)
		return nil
	})
	g.Go(func() error {
		r.mem, r.memOK = s.readMemory(ctx)
		return nil
	})
	g.Go(func() error {
		r.disk, r.diskOK = s.readDisk(ctx)
		return nil
	})
	g.Go(func() error {
		r.tempC = s.readTemperature(ctx)
		return nil
	})
	_ = g.Wait()

	if !r.cpuOK && !r.memOK && !r.diskOK {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeSamplerUnavailable, "no host readings available", nil)
	}

	snap := Snapshot{
		CapturedAt:  s.now(),
		CPUPercent:  r.cpu,
		RAMPercent:  r.mem.percent,
		DiskPercent: r.disk.percent,
		CPUTempC:    r.tempC,
		RAMUsedMB:   r.mem.usedMB,
		RAMTotalMB:  r.mem.totalMB,
		DiskUsedGB:  r.disk.usedGB,
		DiskTotalGB: r.disk.totalGB,
	}
	stored, err := s.repo.Insert(ctx, snap)
	if err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodePersistence, "failed to store system stats", err)
	}
	if s.cache != nil {
		util.BestEffort(ctx, s.logger, "sysstats.cache.set", func(ctx context.Context) error {
			return s.cache.Set(ctx, stored)
		})
	}
	s.logger.Debug("system stats captured",
		"cpu_percent", stored.CPUPercent,
		"ram_percent", stored.RAMPercent,
		"disk_percent", stored.DiskPercent,
		"cpu_temp_c", stored.CPUTempC,
	)
	return stored, nil
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
		return Snapshot{}, false, apperrors.Wrap(apperrors.CodePersistence, "failed to load latest system stats", err)
	}
	return snap, ok, nil
}

func (s *service) History(ctx context.Context, limit int) ([]Snapshot, error) {
	limit = util.ClampLimit(limit, s.cfg.HistoryDefault, s.cfg.HistoryMax)
	items, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistence, "failed to load system stats history", err)
	}
	return items, nil
}

// readCPU samples the counters twice across the window, falling back to the load
// average when the counters are unreadable or did not advance.
func (s *service) readCPU(ctx context.Context) (float64, bool) {
	first, err := s.probe.CPUTimes(ctx)
	if err != nil {
		s.logger.Debug("cpu counters unavailable, using load average", "error", err)
		return s.readLoad(ctx)
	}
	if err := s.sleep(ctx, s.cfg.SampleWindow); err != nil {
		return s.readLoad(ctx)
	}
	second, err := s.probe.CPUTimes(ctx)
	if err != nil {
		s.logger.Debug("cpu counters unavailable, using load average", "error", err)
		return s.readLoad(ctx)
	}
	if pct, ok := CPUPercent(first, second); ok {
		return pct, true
	}
	return s.readLoad(ctx)
}

func (s *service) readLoad(ctx context.Context) (float64, bool) {
	load1, err := s.probe.LoadAverage(ctx)
	if err != nil {
		s.logger.Debug("load average unavailable", "error", err)
		return 0, false
	}
	cores, err := s.probe.LogicalCores(ctx)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}
	return LoadPercent(load1, cores), true
}

func (s *service) readMemory(ctx context.Context) (memoryFields, bool) {
	usage, err := s.probe.Memory(ctx)
	if err != nil {
		s.logger.Warn("memory reading failed", "error", err)
		return memoryFields{}, false
	}
	return memoryFieldsFrom(usage), true
}

// readDisk reports zeros when the filesystem query is unsupported.
func (s *service) readDisk(ctx context.Context) (diskFields, bool) {
	usage, err := s.probe.Disk(ctx, s.cfg.DiskPath)
	if err != nil {
		s.logger.Debug("disk usage unavailable", "path", s.cfg.DiskPath, "error", err)
		return diskFields{}, false
	}
	return diskFieldsFrom(usage), true
}

func (s *service) readTemperature(ctx context.Context) *float64 {
	temp, err := s.probe.CPUTemperature(ctx)
	if err != nil {
		return nil
	}
	rounded := util.Round2(temp)
	return &rounded
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
