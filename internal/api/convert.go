package api

import (
	"time"

	"diagterm/internal/deps"
	"diagterm/internal/history"
	"diagterm/internal/runner"
	"diagterm/internal/services"
	"diagterm/internal/sysinfo"
)

// FromSummary converts a host snapshot into its transport form.
func FromSummary(s sysinfo.Summary) HostSummary {
	return HostSummary{
		Hostname:      s.Hostname,
		Platform:      s.Platform,
		Kernel:        s.Kernel,
		UptimeSeconds: s.UptimeSeconds,
		Load1:         s.Load1,
		Load5:         s.Load5,
		Load15:        s.Load15,
		CPUPercent:    s.CPUPercent,
		CPUCount:      s.CPUCount,
		MemTotal:      s.MemTotal,
		MemUsed:       s.MemUsed,
		MemAvailable:  s.MemAvailable,
		SwapTotal:     s.SwapTotal,
		SwapUsed:      s.SwapUsed,
		DiskTotal:     s.DiskTotal,
		DiskUsed:      s.DiskUsed,
		DiskPercent:   s.DiskPercent,
		NetSentBytes:  s.NetSentBytes,
		NetRecvBytes:  s.NetRecvBytes,
		PowerWatts:    s.PowerWatts,
		PowerKnown:    s.PowerKnown,
		CollectedAt:   formatTime(s.CollectedAt),
	}
}

// FromProcesses converts top-process rows into their transport form.
func FromProcesses(rows []sysinfo.ProcessInfo) []ProcessRow {
	out := make([]ProcessRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProcessRow{
			PID:        row.PID,
			Name:       row.Name,
			User:       row.User,
			CPUPercent: row.CPUPercent,
			MemPercent: row.MemPercent,
			ReadBytes:  row.ReadBytes,
			WriteBytes: row.WriteBytes,
		})
	}
	return out
}

// FromServices converts systemd unit rows into their transport form.
func FromServices(rows []services.ServiceRow) []ServiceUnit {
	out := make([]ServiceUnit, 0, len(rows))
	for _, row := range rows {
		out = append(out, ServiceUnit{
			Name:        row.Name,
			Active:      row.Active,
			Description: row.Description,
		})
	}
	return out
}

// FromRun converts a persisted run into its transport form.
func FromRun(run history.Run) RunRecord {
	return RunRecord{
		ID:         run.ID,
		Command:    run.Command,
		ExitCode:   run.ExitCode,
		TimedOut:   run.TimedOut,
		Output:     run.Output,
		StartedAt:  formatTime(run.StartedAt),
		FinishedAt: formatTime(run.FinishedAt),
		DurationMS: run.DurationMS,
	}
}

// FromRuns converts persisted runs into their transport form.
func FromRuns(runs []history.Run) []RunRecord {
	out := make([]RunRecord, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run))
	}
	return out
}

// FromRunnerResult converts a just-finished execution, tagged with the
// history id it was recorded under.
func FromRunnerResult(id string, result runner.Result) RunRecord {
	return RunRecord{
		ID:         id,
		Command:    result.Command,
		ExitCode:   result.ExitCode,
		TimedOut:   result.TimedOut,
		Output:     result.Output,
		StartedAt:  formatTime(result.StartedAt),
		FinishedAt: formatTime(result.FinishedAt),
		DurationMS: result.Duration.Milliseconds(),
	}
}

// FromDependencies converts tool availability checks into their transport form.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
