package airport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner runs an external command and returns its standard output as lines.
// Run must not return before the process has exited and its output has been
// read in full.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// timeout bounds a single invocation. Zero means no limit.
	timeout time.Duration
}

// ExecRunnerOption configures an ExecRunner.
type ExecRunnerOption func(*ExecRunner)

// WithTimeout limits how long one invocation may run.
// When it expires the process is killed and Run returns an error.
func WithTimeout(d time.Duration) ExecRunnerOption {
	return func(r *ExecRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the command, reads stdout line by line and stderr into a
// buffer at the same time, then waits for the process to exit.
//
// Both pipes are drained concurrently so a utility that writes a lot to
// stderr cannot block on a full pipe while we wait on stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // utility path comes from configuration
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	var lines []string
	var errBuf bytes.Buffer

	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		return scanner.Err()
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})

	readErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s did not finish: %w", name, ctx.Err())
	}
	if waitErr != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, waitErr, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, waitErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read output of %s: %w", name, readErr)
	}

	return lines, nil
}
