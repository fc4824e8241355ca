package sysinfo

import "time"

// Summary is a point-in-time snapshot of the host.
type Summary struct {
	Hostname      string
	Platform      string
	Kernel        string
	UptimeSeconds uint64
	Load1         float64
	Load5         float64
	Load15        float64
	CPUPercent    float64
	CPUCount      int
	MemTotal      uint64
	MemUsed       uint64
	MemAvailable  uint64
	SwapTotal     uint64
	SwapUsed      uint64
	DiskTotal     uint64
	DiskUsed      uint64
	DiskPercent   float64
	NetSentBytes  uint64
	NetRecvBytes  uint64
	PowerWatts    float64
	PowerKnown    bool
	CollectedAt   time.Time
}

// ProcessInfo describes one row of the top-process table.
type ProcessInfo struct {
	PID        int32
	Name       string
	User       string
	CPUPercent float64
	MemPercent float64
	ReadBytes  uint64
	WriteBytes uint64
}
