package diagfeed

import (
	"context"
	"strings"
)

// dmesgBackend fetches the kernel ring buffer. The ring has no resumption
// token: every fetch returns the currently visible window and the feed
// tail-diffs it against the last accepted line.
type dmesgBackend struct {
	binary string
	invoke Invoker
}

func newDmesgBackend(binary string, invoke Invoker) *dmesgBackend {
	return &dmesgBackend{binary: binary, invoke: invoke}
}

// candidates lists argv variants in preference order. Severity filtering and
// human-readable timestamps are not supported by every dmesg build, so the
// variants degrade toward a bare invocation.
func (b *dmesgBackend) candidates() [][]string {
	return [][]string{
		{b.binary, "--color=never", "--level=err,warn", "--ctime"},
		{b.binary, "--color=never", "--level=err,warn"},
		{b.binary, "--level=err,warn", "--ctime"},
		{b.binary, "--level=err,warn"},
		{b.binary, "--ctime"},
		{b.binary},
	}
}

// fetch returns the cleaned ring-buffer window, oldest first.
func (b *dmesgBackend) fetch(ctx context.Context) ([]string, error) {
	out, err := b.invoke.Invoke(ctx, b.candidates())
	if err != nil {
		return nil, err
	}

	raw := strings.Split(out, "\n")
	window := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		window = append(window, line)
	}
	return window, nil
}
