package daemon

import (
	"context"
	"testing"

	"diagterm/internal/logging"
	"diagterm/internal/testsupport"
)

func TestStatusDependenciesWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = d.Close() }()

	for _, dep := range d.Status().Dependencies {
		if !dep.Available {
			t.Errorf("dependency %s unavailable despite stub", dep.Name)
		}
	}
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = d.Close() }()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.PID <= 0 {
		t.Fatalf("pid = %d", status.PID)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected stopped status")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New first: %v", err)
	}
	defer func() { _ = first.Close() }()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start first: %v", err)
	}
	defer first.Stop()

	secondCfg := *cfg
	secondCfg.Paths.APIBind = "127.0.0.1:0"
	second, err := New(&secondCfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	defer func() { _ = second.Close() }()

	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail on lock")
	}
}

func TestRunCommandDisabled(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = d.Close() }()

	if _, _, err := d.RunCommand(context.Background(), "echo hi"); err != ErrRunnerDisabled {
		t.Fatalf("err = %v, want ErrRunnerDisabled", err)
	}
}

func TestFeedSnapshotBeforeFirstPoll(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = d.Close() }()

	selection, lines := d.FeedSnapshot(10)
	if string(selection) != "none" {
		t.Fatalf("selection = %q", selection)
	}
	if len(lines) != 0 {
		t.Fatalf("unexpected lines: %v", lines)
	}
}
