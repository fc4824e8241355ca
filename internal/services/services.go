package services

import (
	"context"
	"os/exec"
	"strings"
)

// ServiceRow describes one running systemd service unit.
type ServiceRow struct {
	Name        string
	Active      string
	Description string
}

type runFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Lister queries systemctl for running service units.
type Lister struct {
	binary string
	run    runFunc
}

// NewLister discovers systemctl on PATH. A Lister without systemctl is
// still usable and reports no units.
func NewLister() *Lister {
	binary, err := exec.LookPath("systemctl")
	if err != nil {
		binary = ""
	}
	return &Lister{binary: binary, run: runCommand}
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output()
}

// Available reports whether systemctl was found.
func (l *Lister) Available() bool {
	return l.binary != ""
}

// Running lists running service units, at most limit rows. Hosts without
// systemd, and systemctl failures, yield an empty slice.
func (l *Lister) Running(ctx context.Context, limit int) []ServiceRow {
	if l.binary == "" || limit <= 0 {
		return []ServiceRow{}
	}
	out, err := l.run(ctx, l.binary,
		"list-units",
		"--type=service",
		"--state=running",
		"--no-pager",
		"--no-legend",
		"--plain",
	)
	if err != nil {
		return []ServiceRow{}
	}
	return parseUnits(string(out), limit)
}

// parseUnits reads "UNIT LOAD ACTIVE SUB DESCRIPTION" rows.
func parseUnits(out string, limit int) []ServiceRow {
	rows := []ServiceRow{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || !strings.HasSuffix(fields[0], ".service") {
			continue
		}
		description := ""
		if len(fields) > 4 {
			description = strings.Join(fields[4:], " ")
		}
		rows = append(rows, ServiceRow{
			Name:        strings.TrimSuffix(fields[0], ".service"),
			Active:      fields[2],
			Description: description,
		})
		if len(rows) >= limit {
			break
		}
	}
	return rows
}
