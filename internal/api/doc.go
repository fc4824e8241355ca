// Package api defines wire-format types for the daemon HTTP API and the
// client the CLI and terminal UI use to consume it.
//
// DTOs use camelCase JSON tags. Converters translate internal models
// (sysinfo, services, history, diagfeed) into transport payloads so
// consumers never couple to internal types. Timestamps are RFC3339 with
// milliseconds.
package api
