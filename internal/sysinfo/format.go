package sysinfo

import (
	"fmt"
	"time"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders a byte count with 1024-based units.
func FormatBytes(value uint64) string {
	size := float64(value)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", value, byteUnits[0])
	}
	return fmt.Sprintf("%.1f %s", size, byteUnits[unit])
}

// FormatRate renders a bytes-per-second figure.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	return FormatBytes(uint64(bytesPerSecond)) + "/s"
}

// FormatUptime renders seconds of uptime as "Nd HH:MM:SS", dropping the
// day component when the host has been up less than a day.
func FormatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
