// Package runner executes user-supplied shell commands with timeouts.
//
// Commands run through the shell in their own process group so a timeout
// kills the whole tree, not just the shell. Execution is opt-in; the
// daemon refuses runs unless the runner is enabled in configuration.
package runner
