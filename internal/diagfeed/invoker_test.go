package diagfeed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestInvokeFirstSuccessWins(t *testing.T) {
	dir := t.TempDir()
	failing := writeStub(t, dir, "failing", "exit 1\n")
	succeeding := writeStub(t, dir, "succeeding", "echo hello\n")

	invoker := NewInvoker(2 * time.Second)
	out, err := invoker.Invoke(context.Background(), [][]string{
		{failing},
		{succeeding},
		{failing},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInvokeAllCandidatesFail(t *testing.T) {
	dir := t.TempDir()
	failing := writeStub(t, dir, "failing", "exit 3\n")

	invoker := NewInvoker(2 * time.Second)
	_, err := invoker.Invoke(context.Background(), [][]string{
		{failing},
		{filepath.Join(dir, "does-not-exist")},
	})
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
}

func TestInvokeTimeoutKillsHungTool(t *testing.T) {
	dir := t.TempDir()
	hung := writeStub(t, dir, "hung", "sleep 10\n")

	invoker := NewInvoker(100 * time.Millisecond)
	start := time.Now()
	_, err := invoker.Invoke(context.Background(), [][]string{{hung}})
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("hung tool was not terminated promptly: %s", elapsed)
	}
}

func TestInvokeCapturesStdoutOnly(t *testing.T) {
	dir := t.TempDir()
	noisy := writeStub(t, dir, "noisy", "echo wanted\necho noise >&2\n")

	invoker := NewInvoker(2 * time.Second)
	out, err := invoker.Invoke(context.Background(), [][]string{{noisy}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out != "wanted\n" {
		t.Fatalf("stderr should not pollute the feed, got %q", out)
	}
}

func TestInvokeEmptyCandidateList(t *testing.T) {
	invoker := NewInvoker(time.Second)
	if _, err := invoker.Invoke(context.Background(), nil); !errors.Is(err, ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
}
