package diagfeed

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrInvocation indicates that every candidate invocation of a log-source
// tool failed: non-zero exit, timeout, or binary not found.
var ErrInvocation = errors.New("tool invocation failed")

const defaultInvokeTimeout = 1500 * time.Millisecond

// Invoker runs one external log-source command and captures its output.
// Candidates are alternative argv forms tried in order to tolerate flag
// differences between tool versions; the first success wins.
type Invoker interface {
	Invoke(ctx context.Context, candidates [][]string) (string, error)
}

type execInvoker struct {
	timeout time.Duration
}

// NewInvoker returns an Invoker that executes candidates as subprocesses,
// each attempt bounded by the given timeout so a hung tool cannot stall a
// poll. A non-positive timeout selects the default.
func NewInvoker(timeout time.Duration) Invoker {
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}
	return &execInvoker{timeout: timeout}
}

func (e *execInvoker) Invoke(ctx context.Context, candidates [][]string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no candidate invocations", ErrInvocation)
	}

	var lastErr error
	for _, argv := range candidates {
		if len(argv) == 0 || argv[0] == "" {
			continue
		}
		out, err := e.runOnce(ctx, argv)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no runnable candidate")
	}
	return "", fmt.Errorf("%w: %v", ErrInvocation, lastErr)
}

func (e *execInvoker) runOnce(ctx context.Context, argv []string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(attemptCtx, argv[0], argv[1:]...)
	// Without a wait delay, a killed tool that leaked its stdout pipe to a
	// child would stall Output until the child exits.
	cmd.WaitDelay = e.timeout
	out, err := cmd.Output()
	if err != nil {
		if attemptCtx.Err() != nil {
			return "", fmt.Errorf("%s timed out after %s", argv[0], e.timeout)
		}
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	return string(out), nil
}
