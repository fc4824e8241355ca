// Package diagfeed maintains an incremental feed of kernel and system log
// warnings sourced from external tooling.
//
// The feed polls one of two mutually incompatible backends: journalctl,
// which supports resumable cursors, and dmesg, a bounded ring buffer with no
// resumption support. Both are presented through a single Poll/Snapshot
// contract that a UI can drive on a fixed interval without seeing duplicate,
// missing, or stale lines. Backend selection happens on first poll, failover
// runs journal to dmesg to unavailable and is sticky, and every failure mode
// resolves to a full-reset poll result rather than an error.
//
// The feed performs no internal locking. Poll mutates feed state and callers
// must serialize access; the daemon wraps the feed in a mutex and the TUI
// polls from its update loop only.
package diagfeed
