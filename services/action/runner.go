package action

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
)

// Runner launches the configured action through the host shell.
type Runner struct {
	log   logger.Logger
	shell []string
}

func NewRunner(log logger.Logger) *Runner {
	return &Runner{log: log, shell: defaultShell()}
}

func defaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"/bin/sh", "-c"}
}

// Validate rejects actions that cannot be handed to a shell.
func Validate(action string) error {
	if strings.TrimSpace(action) == "" {
		return sleepererrors.Configuration("action", sleepererrors.ErrEmptyAction)
	}
	if strings.ContainsRune(action, 0) {
		return sleepererrors.Configuration("action", errors.Wrap(sleepererrors.ErrMalformedAction, "contains a NUL byte"))
	}
	return nil
}

// Run blocks until the action exits and returns its combined stdout and stderr.
// A non-zero exit status is not an error.
func (r *Runner) Run(ctx context.Context, action string) (string, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "ActionRunner.Run")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := Validate(action); err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	args := append(append([]string{}, r.shell[1:]...), action)
	cmd := exec.CommandContext(ctx, r.shell[0], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			span.SetTag("exit_code", exitErr.ExitCode())
			r.log.Debugf("Action exited with status %d", exitErr.ExitCode())
			return string(output), nil
		}
		tracing.TraceErr(span, err)
		return string(output), sleepererrors.ActionLaunch("action", errors.Wrapf(err, "starting %s", r.shell[0]))
	}
	span.SetTag("exit_code", 0)
	return string(output), nil
}
