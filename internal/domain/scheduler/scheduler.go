package scheduler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/opsdash/pkg/util"
)

// Job is one recurring task.
type Job struct {
	Name       string
	Schedule   Schedule
	RunAtStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs each job on its own timer. A failing or panicking job is logged and
// keeps its schedule.
type Scheduler struct {
	clock  Clock
	jobs   []Job
	logger *slog.Logger
	newID  func() string
}

// New builds a scheduler. A nil clock uses wall time.
func New(clock Clock, logger *slog.Logger, jobs ...Job) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock:  clock,
		jobs:   jobs,
		logger: logger.With("component", "scheduler"),
		newID:  uuid.NewString,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		job := job
		s.logger.Info("job scheduled", "job", job.Name, "schedule", job.Schedule.String(), "run_at_start", job.RunAtStart)
		g.Go(func() error {
			return s.loop(gctx, job)
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) error {
	if job.RunAtStart {
		s.fire(ctx, job)
	}
	for {
		now := s.clock.Now()
		t := s.clock.NewTimer(job.Schedule.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C():
		}
		s.fire(ctx, job)
	}
}

func (s *Scheduler) fire(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	logger := s.logger.With("job", job.Name, "run_id", s.newID())
	start := s.clock.Now()
	ok := false
	util.BestEffort(ctx, logger, "job."+job.Name, func(ctx context.Context) error {
		err := job.Run(ctx)
		ok = err == nil
		return err
	})
	logger.Info("job finished", "ok", ok, "duration_ms", s.clock.Now().Sub(start).Milliseconds())
}
