package task

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/customeros/sleeper/config"
	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/cron"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
	"github.com/customeros/sleeper/services/action"
)

// Status is a point in time view of the task, served by the status endpoint.
type Status struct {
	ID          string            `json:"id"`
	Provider    string            `json:"provider"`
	Interval    string            `json:"interval"`
	Ticks       int               `json:"ticks"`
	LastCheck   *time.Time        `json:"lastCheck,omitempty"`
	LastResult  *bool             `json:"lastResult,omitempty"`
	LastError   string            `json:"lastError,omitempty"`
	ActionRun   bool              `json:"actionRun"`
	ProviderExt map[string]string `json:"providerStatus,omitempty"`
}

// Task binds one provider to one action and polls until the keyphrase shows up.
type Task struct {
	id        string
	provider  interfaces.Provider
	runner    interfaces.ActionRunner
	action    string
	verbose   bool
	interval  time.Duration
	log       logger.Logger
	out       io.Writer
	scheduler *cron.Scheduler

	mu     sync.Mutex
	status Status
}

// New validates the action and keyphrase up front so a misconfigured task never starts polling.
func New(opts config.Options, provider interfaces.Provider, runner interfaces.ActionRunner, log logger.Logger, out io.Writer) (*Task, error) {
	actionCmd := opts.Get(config.KeyAction)
	if err := action.Validate(actionCmd); err != nil {
		return nil, err
	}
	// every text contains the empty string
	if opts.Get(config.KeyKeyphrase) == "" {
		return nil, sleepererrors.Configuration("keyphrase", sleepererrors.ErrEmptyKeyphrase)
	}

	id := utils.GenerateID()
	log = log.With("task", id)
	verbose := opts.Bool(config.KeyVerbose)
	minutes := ResolveRepeat(opts.Get(config.KeyRepeat), config.DefaultRepeatMinutes, verbose, log)
	interval := time.Duration(minutes) * time.Minute

	return &Task{
		id:        id,
		provider:  provider,
		runner:    runner,
		action:    actionCmd,
		verbose:   verbose,
		interval:  interval,
		log:       log,
		out:       out,
		scheduler: cron.NewScheduler(interval, log),
		status: Status{
			ID:       id,
			Provider: provider.Name(),
			Interval: interval.String(),
		},
	}, nil
}

// ResolveRepeat returns the requested interval in minutes, or current when the request
// is not a number or is below the minimum.
func ResolveRepeat(requested string, current int, verbose bool, log logger.Logger) int {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return current
	}
	effective := current
	if minutes, err := strconv.Atoi(requested); err == nil && minutes >= config.MinRepeatMinutes {
		effective = minutes
	}
	if verbose {
		log.Infof("Requested repeat interval %s minute(s), using %d minute(s)", requested, effective)
	}
	return effective
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Interval() time.Duration {
	return t.interval
}

// Run polls until the action has run, a check or the action fails, or ctx is cancelled.
func (t *Task) Run(ctx context.Context) error {
	if t.verbose {
		t.log.Infof("Polling %s every %s", t.provider.Name(), t.interval)
	}
	return t.scheduler.Run(ctx, t.tick)
}

func (t *Task) tick(ctx context.Context) (bool, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "Task.tick")
	defer span.Finish()
	tracing.TagTask(span, t.id)
	tracing.TagProvider(span, t.provider.Name())

	found, err := t.provider.Check(ctx)
	t.record(found, err)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, errors.Wrapf(err, "%s provider", t.provider.Name())
	}

	if !found {
		if t.verbose {
			t.log.Info("Keyphrase was not found.")
		}
		return false, nil
	}

	t.log.Info("Keyphrase found, executing action...")
	output, err := t.runner.Run(ctx, t.action)
	if output != "" {
		fmt.Fprint(t.out, output)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	t.mu.Lock()
	t.status.ActionRun = true
	t.mu.Unlock()

	if t.verbose {
		t.log.Info("Action completed.")
	}
	return true, nil
}

func (t *Task) record(found bool, err error) {
	now := utils.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Ticks++
	t.status.LastCheck = &now
	if err != nil {
		t.status.LastResult = nil
		t.status.LastError = err.Error()
		return
	}
	t.status.LastResult = &found
	t.status.LastError = ""
}

func (t *Task) Status() Status {
	t.mu.Lock()
	status := t.status
	t.mu.Unlock()

	if reporter, ok := t.provider.(interfaces.StatusReporter); ok {
		status.ProviderExt = reporter.Status()
	}
	return status
}
