package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// Func adapts a plain function into a Job.
func Func(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// Scheduler runs its jobs once at start and then every interval. A failing job
// is logged and retried on the next tick.
type Scheduler struct {
	interval time.Duration
	timeout  time.Duration
	jobs     []Job
	log      *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler for jobs.
// If interval <= 0 it defaults to 1 minute.
func NewScheduler(interval time.Duration, logger *zerolog.Logger, jobs ...Job) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		interval: interval,
		timeout:  30 * time.Second,
		jobs:     jobs,
		log:      logger,
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler loop in a background goroutine.
// parentCtx is used as the parent for internal contexts; calling Start multiple times has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel

	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.log.Info().Dur("interval", s.interval).Int("jobs", len(s.jobs)).Msg("scheduler started")
	s.runAll()
	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("scheduler stopping")
			return
		case <-ticker.C:
			s.runAll()
		}
	}
}

func (s *Scheduler) runAll() {
	for _, j := range s.jobs {
		if s.ctx.Err() != nil {
			return
		}
		// run each job with a bounded timeout
		runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
		start := time.Now()
		err := j.Run(runCtx)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("job", j.Name()).Msg("scheduled job failed")
			continue
		}
		s.log.Debug().Str("job", j.Name()).Dur("duration", time.Since(start)).Msg("scheduled job done")
	}
}

// Stop cancels the scheduler and waits for the loop to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	// reset for potential restart
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
}
