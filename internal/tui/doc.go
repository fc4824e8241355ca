// Package tui implements the interactive terminal dashboard. It runs
// standalone with in-process collectors and a private diagnostics feed, so
// no daemon is required. A fixed-interval tick drives refresh; an in-flight
// flag keeps polls serialized so the feed is never touched concurrently.
package tui
