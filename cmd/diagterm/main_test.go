package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCommand()
	want := []string{"tui", "status", "summary", "processes", "services", "diag", "run", "runs", "logs", "config", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "dev")
}

func TestRunExecutesAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "--", "echo", "from-cli"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "from-cli")

	out, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "echo from-cli")
}

func TestRunFailurePropagatesExitStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--", "exit 3"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	requireContains(t, err.Error(), "status 3")
}

func TestRunRejectedWhenRunnerDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env, false)

	_, _, err := runCLI(t, []string{"run", "--", "echo", "nope"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when runner is disabled")
	}
	requireContains(t, err.Error(), "disabled")
}

func TestRunsEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No commands recorded yet")
}

func TestLogsReadsLocalFile(t *testing.T) {
	env := setupCLITestEnv(t)

	logPath := filepath.Join(env.logDir, "diagtermd.log")
	if err := os.MkdirAll(env.logDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	if err := os.WriteFile(logPath, []byte("first line\nsecond line\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "first line")
	requireContains(t, out, "second line")
}

func TestStatusFallsBackWithoutDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "not reachable")
	requireContains(t, out, "Dependencies")
	requireContains(t, out, "journalctl")
}
