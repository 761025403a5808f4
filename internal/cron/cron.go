package cron

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
)

// Job is one tick of work. Returning done or an error ends the run.
type Job func(ctx context.Context) (done bool, err error)

// Scheduler runs a job immediately and then on every tick of its schedule.
// Ticks never overlap: a slow tick delays the next one.
type Scheduler struct {
	log      logger.Logger
	schedule cronv3.Schedule
}

func NewScheduler(interval time.Duration, log logger.Logger) *Scheduler {
	return NewSchedulerWithSchedule(cronv3.Every(interval), log)
}

func NewSchedulerWithSchedule(schedule cronv3.Schedule, log logger.Logger) *Scheduler {
	return &Scheduler{log: log, schedule: schedule}
}

type result struct {
	err error
}

// Run blocks until the job reports done, the job fails, or ctx is cancelled.
// Cancellation is not an error. No tick starts work after the run has finished.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	var finished atomic.Bool
	results := make(chan result, 1)

	tick := func() {
		if finished.Load() {
			return
		}
		done, err := s.runJob(ctx, job)
		if err != nil && ctx.Err() != nil {
			err = nil
			done = true
		}
		if (done || err != nil) && finished.CompareAndSwap(false, true) {
			results <- result{err: err}
		}
	}

	tick()
	if finished.Load() {
		return (<-results).err
	}

	cronLogger := NewCronLogger(s.log)
	c := cronv3.New(
		cronv3.WithLogger(cronLogger),
		cronv3.WithChain(
			cronv3.Recover(cronLogger),
			cronv3.DelayIfStillRunning(cronLogger),
		),
	)
	c.Schedule(s.schedule, cronv3.FuncJob(tick))
	c.Start()
	stop := func() {
		<-c.Stop().Done()
	}
	defer stop()

	return awaitResult(ctx, results, &finished, stop)
}

// awaitResult prefers a reported result over cancellation. On cancellation it waits
// for the running tick through stop, so a result posted alongside ctx.Done is kept.
func awaitResult(ctx context.Context, results <-chan result, finished *atomic.Bool, stop func()) error {
	select {
	case r := <-results:
		return r.err
	case <-ctx.Done():
	}

	stop()
	finished.Store(true)
	select {
	case r := <-results:
		return r.err
	default:
		return nil
	}
}

// runJob turns a panic inside the job into an error.
func (s *Scheduler) runJob(ctx context.Context, job Job) (done bool, err error) {
	span, ctx := tracing.StartTracerSpan(ctx, "Scheduler.tick")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Recovered from panic in scheduled job: %v\n%s", r, debug.Stack())
			err = errors.Errorf("panic in scheduled job: %v", r)
			tracing.TraceErr(span, err)
			done = false
		}
	}()
	done, err = job(ctx)
	tracing.TraceErr(span, err)
	return done, err
}
