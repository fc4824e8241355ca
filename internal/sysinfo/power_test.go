package sysinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSysfsFile(t *testing.T, root string, parts []string, content string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPowerReaderPrefersBattery(t *testing.T) {
	root := t.TempDir()
	writeSysfsFile(t, root, []string{"class", "power_supply", "BAT0", "power_now"}, "12500000\n")
	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:0", "energy_uj"}, "1000000\n")

	reader := NewPowerReader(root)
	watts, ok := reader.Read(time.Now())
	if !ok {
		t.Fatal("expected battery reading")
	}
	if watts != 12.5 {
		t.Fatalf("watts = %v, want 12.5", watts)
	}
}

func TestPowerReaderRAPLDelta(t *testing.T) {
	root := t.TempDir()
	energyPath := []string{"class", "powercap", "intel-rapl:0", "energy_uj"}
	writeSysfsFile(t, root, energyPath, "1000000\n")

	reader := NewPowerReader(root)
	base := time.Unix(1000, 0)

	if _, ok := reader.Read(base); ok {
		t.Fatal("first RAPL sample should not produce a reading")
	}

	// 10 joules over 2 seconds is 5 watts.
	writeSysfsFile(t, root, energyPath, "11000000\n")
	watts, ok := reader.Read(base.Add(2 * time.Second))
	if !ok {
		t.Fatal("expected RAPL delta reading")
	}
	if watts != 5 {
		t.Fatalf("watts = %v, want 5", watts)
	}
}

func TestPowerReaderRAPLSumsPackages(t *testing.T) {
	root := t.TempDir()
	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:0", "energy_uj"}, "1000000\n")
	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:1", "energy_uj"}, "2000000\n")
	// Subzones must not be counted.
	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:0:0", "energy_uj"}, "500000\n")

	reader := NewPowerReader(root)
	base := time.Unix(1000, 0)
	reader.Read(base)

	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:0", "energy_uj"}, "2000000\n")
	writeSysfsFile(t, root, []string{"class", "powercap", "intel-rapl:1", "energy_uj"}, "3000000\n")
	watts, ok := reader.Read(base.Add(1 * time.Second))
	if !ok {
		t.Fatal("expected RAPL reading")
	}
	if watts != 2 {
		t.Fatalf("watts = %v, want 2", watts)
	}
}

func TestPowerReaderCounterWrapResync(t *testing.T) {
	root := t.TempDir()
	energyPath := []string{"class", "powercap", "intel-rapl:0", "energy_uj"}
	writeSysfsFile(t, root, energyPath, "9000000\n")

	reader := NewPowerReader(root)
	base := time.Unix(1000, 0)
	reader.Read(base)

	// Counter wrapped to a smaller value; skip this interval.
	writeSysfsFile(t, root, energyPath, "1000000\n")
	if _, ok := reader.Read(base.Add(time.Second)); ok {
		t.Fatal("wrapped counter should not produce a reading")
	}

	// Next interval is sane again.
	writeSysfsFile(t, root, energyPath, "4000000\n")
	watts, ok := reader.Read(base.Add(2 * time.Second))
	if !ok {
		t.Fatal("expected reading after resync")
	}
	if watts != 3 {
		t.Fatalf("watts = %v, want 3", watts)
	}
}

func TestPowerReaderNoSources(t *testing.T) {
	reader := NewPowerReader(t.TempDir())
	if _, ok := reader.Read(time.Now()); ok {
		t.Fatal("expected no reading without power sources")
	}
}
