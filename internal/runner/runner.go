package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// DefaultTimeout bounds command execution when no override is set.
	DefaultTimeout = 120 * time.Second

	// TimeoutExitCode mirrors the exit code coreutils timeout(1) reports.
	TimeoutExitCode = 124

	maxOutputBytes = 256 * 1024
)

// ErrEmptyCommand is returned when the command is blank.
var ErrEmptyCommand = errors.New("empty command")

// Result captures one command execution.
type Result struct {
	Command    string
	ExitCode   int
	Output     string
	TimedOut   bool
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// Runner executes shell commands.
type Runner struct {
	shell   string
	timeout time.Duration
}

// New builds a Runner using $SHELL when set, /bin/sh otherwise.
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	shell := strings.TrimSpace(os.Getenv("SHELL"))
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Runner{shell: shell, timeout: timeout}
}

// Run executes command through the shell, capturing interleaved
// stdout/stderr. A timeout kills the command's process group and reports
// exit code 124. Failures of the command itself are reported in the
// Result, not as an error.
func (r *Runner) Run(ctx context.Context, command string) (Result, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{}, ErrEmptyCommand
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.shell, "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Kill the whole process group so children of the shell die too.
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	started := time.Now().UTC()
	err := cmd.Run()
	finished := time.Now().UTC()

	result := Result{
		Command:    command,
		Output:     truncateOutput(buf.String()),
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   finished.Sub(started),
	}

	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		result.TimedOut = true
		result.ExitCode = TimeoutExitCode
		if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
			result.Output += "\n"
		}
		result.Output += fmt.Sprintf("[command timed out after %s]", r.timeout)
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return Result{}, fmt.Errorf("run command: %w", err)
	}
	return result, nil
}

func truncateOutput(output string) string {
	if len(output) <= maxOutputBytes {
		return output
	}
	return output[:maxOutputBytes] + "\n[output truncated]"
}
