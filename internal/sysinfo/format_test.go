package sysinfo

import "testing"

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		value uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.value); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		seconds uint64
		want    string
	}{
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{86400, "1d 00:00:00"},
		{90061, "1d 01:01:01"},
		{259200 + 7200 + 120 + 3, "3d 02:02:03"},
	}
	for _, tc := range cases {
		if got := FormatUptime(tc.seconds); got != tc.want {
			t.Errorf("FormatUptime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(2048); got != "2.0 KB/s" {
		t.Fatalf("FormatRate = %q", got)
	}
	if got := FormatRate(-5); got != "0 B/s" {
		t.Fatalf("FormatRate negative = %q", got)
	}
}
