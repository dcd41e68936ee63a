// Package scheduler runs the periodic jobs of the server.  The only one so
// far drops cached answers when the cinema-local day rolls over, because a
// snapshot taken yesterday still lists programming that has ended.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec fires at midnight, with a few seconds of slack for clock skew
// between the database and the server.
const DefaultSpec = "5 0 0 * * *"

// Job is one named task.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs jobs on a cron spec in the cinema zone.
type Scheduler struct {
	cron *cron.Cron
	spec string
	jobs []Job
	log  *slog.Logger
}

// New returns a scheduler firing on the cron expression spec (seconds
// field first) in loc.
func New(loc *time.Location, spec string, logger *slog.Logger, jobs ...Job) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		spec: spec,
		jobs: jobs,
		log:  logger.With("component", "scheduler"),
	}
}

// Start registers the jobs and starts the cron loop.  It returns an error
// when the cron expression does not parse.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec, "next", s.Next())
	return nil
}

// RunOnce runs every job in order.  A failing job is logged and does not
// stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		start := time.Now()
		if err := j.Run(ctx); err != nil {
			s.log.Error("job failed", "job", j.Name, "error", err)
			continue
		}
		s.log.Info("job done", "job", j.Name, "took", time.Since(start))
	}
}

// Next is the next fire time, or zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops the loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
