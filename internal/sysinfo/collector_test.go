package sysinfo

import (
	"context"
	"testing"
)

func TestSummaryReportsHost(t *testing.T) {
	collector := NewCollector()
	summary, err := collector.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Hostname == "" {
		t.Fatal("expected hostname")
	}
	if summary.CPUCount <= 0 {
		t.Fatalf("cpu count = %d", summary.CPUCount)
	}
	if summary.MemTotal == 0 {
		t.Fatal("expected total memory")
	}
	if summary.CollectedAt.IsZero() {
		t.Fatal("expected collection timestamp")
	}
}

func TestTopProcessesHonorsLimit(t *testing.T) {
	collector := NewCollector()
	rows, err := collector.TopProcesses(context.Background(), 3)
	if err != nil {
		t.Fatalf("TopProcesses: %v", err)
	}
	if len(rows) > 3 {
		t.Fatalf("got %d rows, want at most 3", len(rows))
	}
	for _, row := range rows {
		if row.PID <= 0 {
			t.Fatalf("invalid pid in row %+v", row)
		}
		if row.Name == "" {
			t.Fatalf("empty name in row %+v", row)
		}
	}
}

func TestTopProcessesZeroLimit(t *testing.T) {
	collector := NewCollector()
	rows, err := collector.TopProcesses(context.Background(), 0)
	if err != nil {
		t.Fatalf("TopProcesses: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}
}
