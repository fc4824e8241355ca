// Package daemon runs the diagterm background process: it owns the
// diagnostics feed, the host collectors, the run history store, and the
// HTTP API, and holds the single-instance lock.
//
// The feed has no internal locking; the daemon serializes all feed
// access behind its own mutex, with a ticker goroutine driving polls.
package daemon
