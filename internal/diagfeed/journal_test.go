package diagfeed

import (
	"context"
	"testing"
)

func TestExtractCursor(t *testing.T) {
	raw := []string{
		"2026-01-02T03:04:05+0000 host kernel: warning",
		"-- cursor: s=deadbeef;i=42",
	}
	if got := extractCursor(raw); got != "s=deadbeef;i=42" {
		t.Fatalf("unexpected cursor %q", got)
	}

	if got := extractCursor([]string{"no trailer here"}); got != "" {
		t.Fatalf("expected empty cursor, got %q", got)
	}

	// An empty token after the prefix counts as no cursor.
	if got := extractCursor([]string{"-- cursor: "}); got != "" {
		t.Fatalf("expected empty cursor for blank token, got %q", got)
	}
}

func TestFilterJournalLines(t *testing.T) {
	raw := []string{
		"",
		"real line one   ",
		"-- No entries --",
		"-- cursor: token",
		"real line two",
		"",
	}
	got := filterJournalLines(raw)
	if len(got) != 2 || got[0] != "real line one" || got[1] != "real line two" {
		t.Fatalf("unexpected filtered lines: %#v", got)
	}
}

func TestJournalFetchArgs(t *testing.T) {
	invoker := &fakeInvoker{}
	invoker.push("a\n-- cursor: T1\n", nil)
	invoker.push("b\n-- cursor: T2\n", nil)

	backend := newJournalBackend("journalctl", 120, invoker)

	lines, cursor, err := backend.fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cursor != "T1" || len(lines) != 1 || lines[0] != "a" {
		t.Fatalf("unexpected fetch result: %v %q", lines, cursor)
	}
	args := invoker.calls[0][0]
	if !containsPair(args, "-n", "120") {
		t.Fatalf("initial fetch should request the window size, argv %v", args)
	}
	if !containsPair(args, "-p", journalPriorityRange) {
		t.Fatalf("fetch must filter to warning and above, argv %v", args)
	}

	if _, _, err := backend.fetch(context.Background(), "T1"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	args = invoker.calls[1][0]
	if !containsPair(args, "--after-cursor", "T1") {
		t.Fatalf("cursor fetch should resume, argv %v", args)
	}
	if containsFlag(args, "-n") {
		t.Fatalf("cursor fetch must not request a tail window, argv %v", args)
	}
}

func TestDmesgCandidatesDegrade(t *testing.T) {
	backend := newDmesgBackend("/usr/bin/dmesg", nil)
	candidates := backend.candidates()
	if len(candidates) != 6 {
		t.Fatalf("expected 6 argv variants, got %d", len(candidates))
	}
	last := candidates[len(candidates)-1]
	if len(last) != 1 || last[0] != "/usr/bin/dmesg" {
		t.Fatalf("final variant should be the bare binary, got %v", last)
	}
}
