package api

import (
	"testing"
	"time"

	"diagterm/internal/history"
	"diagterm/internal/runner"
	"diagterm/internal/services"
	"diagterm/internal/sysinfo"
)

func TestFromSummaryFormatsTimestamp(t *testing.T) {
	src := sysinfo.Summary{
		Hostname:    "box",
		CPUPercent:  42.5,
		MemTotal:    1024,
		CollectedAt: time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	}
	got := FromSummary(src)
	if got.Hostname != "box" || got.CPUPercent != 42.5 || got.MemTotal != 1024 {
		t.Fatalf("field mismatch: %+v", got)
	}
	if got.CollectedAt != "2026-08-15T10:30:00.000Z" {
		t.Fatalf("timestamp = %q", got.CollectedAt)
	}
}

func TestFromRunnerResultCarriesID(t *testing.T) {
	started := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	result := runner.Result{
		Command:    "uptime",
		ExitCode:   0,
		Output:     "ok",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Duration:   1500 * time.Millisecond,
	}
	got := FromRunnerResult("run-1", result)
	if got.ID != "run-1" {
		t.Fatalf("id = %q", got.ID)
	}
	if got.DurationMS != 1500 {
		t.Fatalf("duration = %d", got.DurationMS)
	}
	if got.StartedAt == "" || got.FinishedAt == "" {
		t.Fatalf("timestamps missing: %+v", got)
	}
}

func TestFromRunsPreservesOrder(t *testing.T) {
	runs := []history.Run{
		{ID: "b", Command: "second"},
		{ID: "a", Command: "first"},
	}
	got := FromRuns(runs)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].StartedAt != "" {
		t.Fatalf("zero time must render empty, got %q", got[0].StartedAt)
	}
}

func TestFromServicesEmptyInput(t *testing.T) {
	got := FromServices(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFromServicesFields(t *testing.T) {
	got := FromServices([]services.ServiceRow{{Name: "ssh", Active: "active", Description: "OpenSSH"}})
	if len(got) != 1 || got[0].Name != "ssh" || got[0].Description != "OpenSSH" {
		t.Fatalf("unexpected conversion: %+v", got)
	}
}
