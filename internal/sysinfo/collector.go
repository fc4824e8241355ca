package sysinfo

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Collector gathers host summaries and top-process tables.
type Collector struct {
	power *PowerReader
}

// NewCollector builds a Collector and primes the CPU sampler so the first
// Summary call reports a meaningful usage figure instead of zero.
func NewCollector() *Collector {
	_, _ = cpu.Percent(0, false)
	return &Collector{power: NewPowerReader("")}
}

// Summary collects a host snapshot. Individual metrics are best effort;
// only a total failure of the host probe returns an error.
func (c *Collector) Summary(ctx context.Context) (Summary, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("host info: %w", err)
	}

	summary := Summary{
		Hostname:      fallback(info.Hostname, hostnameFallback()),
		Platform:      strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Kernel:        info.KernelVersion,
		UptimeSeconds: info.Uptime,
		CPUCount:      runtime.NumCPU(),
		CollectedAt:   time.Now().UTC(),
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		summary.Load1 = avg.Load1
		summary.Load5 = avg.Load5
		summary.Load15 = avg.Load15
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		summary.CPUPercent = clampPercent(percents[0])
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		summary.MemTotal = vm.Total
		summary.MemUsed = vm.Used
		summary.MemAvailable = vm.Available
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		summary.SwapTotal = swap.Total
		summary.SwapUsed = swap.Used
	}

	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		summary.DiskTotal = usage.Total
		summary.DiskUsed = usage.Used
		summary.DiskPercent = clampPercent(usage.UsedPercent)
	}

	if counters, err := net.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		summary.NetSentBytes = counters[0].BytesSent
		summary.NetRecvBytes = counters[0].BytesRecv
	}

	if watts, ok := c.power.Read(time.Now()); ok {
		summary.PowerWatts = watts
		summary.PowerKnown = true
	}

	return summary, nil
}

// TopProcesses returns the processes with the highest CPU share, ties
// broken by memory share. Processes that cannot be inspected are skipped.
func (c *Collector) TopProcesses(ctx context.Context, limit int) ([]ProcessInfo, error) {
	if limit <= 0 {
		return []ProcessInfo{}, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	rows := make([]ProcessInfo, 0, len(procs))
	for _, proc := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		row := ProcessInfo{PID: proc.Pid, Name: name}
		if user, err := proc.UsernameWithContext(ctx); err == nil {
			row.User = user
		}
		if cpuPct, err := proc.CPUPercentWithContext(ctx); err == nil {
			row.CPUPercent = clampPercent(cpuPct)
		}
		if memPct, err := proc.MemoryPercentWithContext(ctx); err == nil {
			row.MemPercent = clampPercent(float64(memPct))
		}
		if counters, err := proc.IOCountersWithContext(ctx); err == nil && counters != nil {
			row.ReadBytes = counters.ReadBytes
			row.WriteBytes = counters.WriteBytes
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CPUPercent == rows[j].CPUPercent {
			return rows[i].MemPercent > rows[j].MemPercent
		}
		return rows[i].CPUPercent > rows[j].CPUPercent
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func hostnameFallback() string {
	name, _ := os.Hostname()
	return name
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
