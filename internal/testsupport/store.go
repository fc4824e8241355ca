package testsupport

import (
	"context"
	"testing"

	"diagterm/internal/config"
	"diagterm/internal/history"
	"diagterm/internal/runner"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := history.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordRun inserts a command result for tests using the provided store.
func RecordRun(t testing.TB, store *history.Store, result runner.Result) string {
	t.Helper()

	id, err := store.Record(context.Background(), result)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return id
}
