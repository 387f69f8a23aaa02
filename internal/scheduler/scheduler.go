package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Runner is the pipeline entry point the scheduler drives.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler periodically executes the pipeline when scheduled mode is enabled.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
}

// New creates a new Scheduler.
func New(runner Runner, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		interval:  interval,
	}
}

// Start schedules the periodic pipeline job and starts the underlying
// scheduler. The first run fires immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running pipeline job")

		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		if err := s.runner.Run(ctx); err != nil {
			log.Printf("scheduler: pipeline run failed: %v", err)
		}

		log.Println("scheduler: completed pipeline job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
