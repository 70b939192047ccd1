// Package jobs runs periodic background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Completer marks consultations whose slot has ended as completed.
type Completer interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

// CompletionJob runs a Completer on a cron schedule.
type CompletionJob struct {
	completer Completer
	logger    zerolog.Logger
	timeout   time.Duration
}

func NewCompletionJob(completer Completer, logger zerolog.Logger) *CompletionJob {
	return &CompletionJob{completer: completer, logger: logger, timeout: time.Minute}
}

// Run completes elapsed consultations once.
func (j *CompletionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.completer.CompleteElapsed(ctx)
	if err != nil {
		j.logger.Error().Err(err).Int("completed", n).Msg("completion job failed")
		return
	}
	if n > 0 {
		j.logger.Info().Int("completed", n).Msg("completed elapsed consultations")
	}
}

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers job on spec (standard five-field cron syntax).
func NewScheduler(spec string, job cron.Job, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
