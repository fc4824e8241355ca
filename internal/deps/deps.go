package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool diagterm relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default returns the host tools the daemon and UI probe for. Every one
// of them is optional; the feed and views degrade when tools are missing.
func Default() []Requirement {
	return []Requirement{
		{Name: "journalctl", Command: "journalctl", Description: "systemd journal reader for the diagnostics feed", Optional: true},
		{Name: "dmesg", Command: "dmesg", Description: "kernel ring buffer fallback for the diagnostics feed", Optional: true},
		{Name: "systemctl", Command: "systemctl", Description: "systemd unit listing for the services view", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
