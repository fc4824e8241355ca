// Command diagterm is the host diagnostics CLI and dashboard. Without a
// subcommand it launches the interactive terminal UI; subcommands provide
// one-shot views that prefer the daemon API and fall back to in-process
// collection when no daemon is running.
package main
