package sysinfo

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var raplPackagePattern = regexp.MustCompile(`^intel-rapl:[0-9]+$`)

// PowerReader reports package power draw in watts. It prefers the battery
// discharge rate and falls back to Intel RAPL energy counter deltas.
// Hosts without either source report no reading.
type PowerReader struct {
	root       string
	lastEnergy uint64
	lastAt     time.Time
	haveSample bool
}

// NewPowerReader builds a reader rooted at the given sysfs mount.
// An empty root means /sys.
func NewPowerReader(root string) *PowerReader {
	if root == "" {
		root = "/sys"
	}
	return &PowerReader{root: root}
}

// Read returns the current power draw. The second return value is false
// when no power source is readable, or on the first RAPL sample where no
// delta exists yet.
func (r *PowerReader) Read(now time.Time) (float64, bool) {
	if watts, ok := r.readBattery(); ok {
		return watts, true
	}
	return r.readRAPL(now)
}

// readBattery scans power_supply entries for a battery reporting an
// instantaneous discharge rate in microwatts.
func (r *PowerReader) readBattery() (float64, bool) {
	base := filepath.Join(r.root, "class", "power_supply")
	entries, err := os.ReadDir(base)
	if err != nil {
		return 0, false
	}
	for _, entry := range entries {
		micro, ok := readSysfsUint(filepath.Join(base, entry.Name(), "power_now"))
		if !ok || micro == 0 {
			continue
		}
		return float64(micro) / 1e6, true
	}
	return 0, false
}

// readRAPL sums top-level package energy counters and derives watts from
// the delta against the previous call.
func (r *PowerReader) readRAPL(now time.Time) (float64, bool) {
	base := filepath.Join(r.root, "class", "powercap")
	entries, err := os.ReadDir(base)
	if err != nil {
		return 0, false
	}

	var total uint64
	found := false
	for _, entry := range entries {
		if !raplPackagePattern.MatchString(entry.Name()) {
			continue
		}
		energy, ok := readSysfsUint(filepath.Join(base, entry.Name(), "energy_uj"))
		if !ok {
			continue
		}
		total += energy
		found = true
	}
	if !found {
		return 0, false
	}

	if !r.haveSample {
		r.lastEnergy = total
		r.lastAt = now
		r.haveSample = true
		return 0, false
	}

	elapsed := now.Sub(r.lastAt).Seconds()
	previous := r.lastEnergy
	r.lastEnergy = total
	r.lastAt = now

	// Counter wrapped or clock went backwards; resynchronize.
	if elapsed <= 0 || total < previous {
		return 0, false
	}
	return float64(total-previous) / 1e6 / elapsed, true
}

func readSysfsUint(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
