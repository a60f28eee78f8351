// Package scheduler drives the `atmos watch` refresh loop.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler periodically re-runs a view refresh job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	job       func()
}

// New creates a Scheduler running job every interval.
func New(interval time.Duration, job func()) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		job:       job,
	}
}

// Start runs the job once immediately, then on every tick.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).Do(s.job)
	if err != nil {
		return err
	}

	s.job()
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
