package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Runner executes an external command and returns its stdout.
// Implementations must respect context cancellation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs commands through os/exec with a bounded timeout per invocation.
type Exec struct {
	Timeout time.Duration
}

// NewExec creates a runner with the given per-command timeout.
func NewExec(timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Exec{Timeout: timeout}
}

// Run executes the command and returns trimmed stdout. A non-zero exit,
// missing binary, or timeout all surface as an error; callers decide whether
// that is a failure or merely a negative signal.
func (e *Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s timed out after %s", name, e.Timeout)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}
