// Package scheduler runs periodic background jobs on gocron.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/bobmcallan/networth/internal/common"
)

// TaskFunc is the body of a scheduled job.
type TaskFunc func(ctx context.Context) error

// Scheduler wraps a gocron scheduler with logging and panic recovery.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *common.Logger
}

// New creates a stopped scheduler.
func New(logger *common.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// NewIntervalJob registers fn to run every interval. Overlapping runs are
// rescheduled rather than stacked.
func (s *Scheduler) NewIntervalJob(name string, fn TaskFunc, interval time.Duration, startImmediately bool) error {
	return s.createJob(gocron.DurationJob(interval), name, fn, startImmediately)
}

// NewCrontabJob registers fn on a crontab expression with a seconds field.
func (s *Scheduler) NewCrontabJob(name string, fn TaskFunc, crontab string, startImmediately bool) error {
	return s.createJob(gocron.CronJob(crontab, true), name, fn, startImmediately)
}

func (s *Scheduler) createJob(def gocron.JobDefinition, name string, fn TaskFunc, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err := s.scheduler.NewJob(def, gocron.NewTask(s.withRecover(name, fn)), opts...); err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) withRecover(name string, fn TaskFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().
					Str("job", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic in scheduled job")
			}
		}()

		start := time.Now()
		if err := fn(ctx); err != nil {
			s.logger.Warn().Err(err).Str("job", name).Msg("Scheduled job failed")
			return
		}
		s.logger.Debug().Str("job", name).Dur("elapsed", time.Since(start)).Msg("Scheduled job completed")
	}
}
