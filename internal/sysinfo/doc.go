// Package sysinfo collects host metrics for the summary and process views.
//
// Collection is best effort: metrics a host cannot provide (battery power,
// RAPL counters, per-process IO for privileged processes) are omitted
// rather than failing the snapshot.
package sysinfo
