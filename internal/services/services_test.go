package services

import (
	"context"
	"errors"
	"testing"
)

const sampleListUnits = `cron.service               loaded active running Regular background program processing daemon
dbus.service               loaded active running D-Bus System Message Bus
ssh.service                loaded active running OpenBSD Secure Shell server
systemd-journald.service   loaded active running Journal Service
`

func TestParseUnits(t *testing.T) {
	rows := parseUnits(sampleListUnits, 10)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[0].Name != "cron" {
		t.Fatalf("name = %q, want cron", rows[0].Name)
	}
	if rows[0].Active != "active" {
		t.Fatalf("active = %q", rows[0].Active)
	}
	if rows[2].Description != "OpenBSD Secure Shell server" {
		t.Fatalf("description = %q", rows[2].Description)
	}
}

func TestParseUnitsHonorsLimit(t *testing.T) {
	rows := parseUnits(sampleListUnits, 2)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestParseUnitsSkipsNoise(t *testing.T) {
	out := "garbage line\nfoo.socket loaded active running Not a service\n\nbar.service loaded active running Bar\n"
	rows := parseUnits(out, 10)
	if len(rows) != 1 || rows[0].Name != "bar" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRunningWithoutSystemctl(t *testing.T) {
	lister := &Lister{binary: "", run: nil}
	rows := lister.Running(context.Background(), 10)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if lister.Available() {
		t.Fatal("expected unavailable lister")
	}
}

func TestRunningToolFailure(t *testing.T) {
	lister := &Lister{
		binary: "systemctl",
		run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}
	rows := lister.Running(context.Background(), 10)
	if len(rows) != 0 {
		t.Fatalf("expected no rows on failure, got %d", len(rows))
	}
}

func TestRunningUsesCommandOutput(t *testing.T) {
	var gotArgs []string
	lister := &Lister{
		binary: "systemctl",
		run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte(sampleListUnits), nil
		},
	}
	rows := lister.Running(context.Background(), 10)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	joined := ""
	for _, arg := range gotArgs {
		joined += arg + " "
	}
	for _, want := range []string{"list-units", "--type=service", "--state=running", "--no-legend"} {
		found := false
		for _, arg := range gotArgs {
			if arg == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing argument %q in %q", want, joined)
		}
	}
}
