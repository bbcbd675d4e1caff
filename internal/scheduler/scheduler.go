// Package scheduler drives the bot's periodic runs in watch mode.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled task
type Job func(ctx context.Context) error

// Scheduler manages periodic tasks. A job that is still running when its
// next tick arrives is skipped, so at most one instance runs at a time.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a new scheduler
func New() *Scheduler {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(log.Default())),
	))

	return &Scheduler{cron: c}
}

// AddInterval schedules a job to run at a fixed interval
func (s *Scheduler) AddInterval(name string, every time.Duration, job Job) error {
	_, err := s.cron.AddFunc("@every "+every.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		log.Printf("[scheduler] Starting job: %s", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			log.Printf("[scheduler] Job %s failed: %v", name, err)
		} else {
			log.Printf("[scheduler] Job %s completed in %v", name, time.Since(start))
		}
	})

	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	log.Printf("[scheduler] Added job: %s (every %v)", name, every)

	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	log.Println("[scheduler] Starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once any
// in-flight job has finished
func (s *Scheduler) Stop() context.Context {
	log.Println("[scheduler] Stopping scheduler")
	return s.cron.Stop()
}
