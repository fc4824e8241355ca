// Package logs reads the daemon log file incrementally for the CLI
// logs command and the /api/logs endpoint.
package logs
