package diagfeed

import (
	"context"
	"strconv"
	"strings"
)

const (
	// cursorPrefix introduces the trailer line journalctl emits under
	// --show-cursor. The token after the prefix is opaque.
	cursorPrefix = "-- cursor:"
	// noEntriesSentinel is printed by journalctl when a query matches
	// nothing. It is presentation noise, not a log line.
	noEntriesSentinel = "-- No entries --"

	// journalPriorityRange covers emerg through warning so only warnings
	// and errors surface in the feed.
	journalPriorityRange = "0..4"
)

// journalBackend fetches warning-and-above entries from the systemd journal.
// It is stateless: the feed owns the cursor and decides between the
// initial-fill and after-cursor regimes.
type journalBackend struct {
	binary string
	limit  int
	invoke Invoker
}

func newJournalBackend(binary string, limit int, invoke Invoker) *journalBackend {
	return &journalBackend{binary: binary, limit: limit, invoke: invoke}
}

// fetch queries the journal. With an empty cursor it requests the most
// recent limit entries; otherwise it requests entries strictly after the
// cursor. It returns the filtered log lines and the new cursor token, which
// is empty when the tool emitted no trailer (a supported, non-error case).
func (b *journalBackend) fetch(ctx context.Context, cursor string) ([]string, string, error) {
	argv := []string{
		b.binary,
		"--no-pager",
		"--output", "short-iso",
		"-p", journalPriorityRange,
		"--show-cursor",
	}
	if cursor != "" {
		argv = append(argv, "--after-cursor", cursor)
	} else {
		argv = append(argv, "-n", strconv.Itoa(b.limit))
	}

	out, err := b.invoke.Invoke(ctx, [][]string{argv})
	if err != nil {
		return nil, "", err
	}

	raw := strings.Split(out, "\n")
	return filterJournalLines(raw), extractCursor(raw), nil
}

// extractCursor finds the trailing continuation marker, scanning backward
// since journalctl appends it after the entries.
func extractCursor(raw []string) string {
	for i := len(raw) - 1; i >= 0; i-- {
		if strings.HasPrefix(raw[i], cursorPrefix) {
			return strings.TrimSpace(raw[i][len(cursorPrefix):])
		}
	}
	return ""
}

// filterJournalLines strips blank lines, the no-entries sentinel, and the
// cursor trailer so only real log lines reach the buffer.
func filterJournalLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || line == noEntriesSentinel {
			continue
		}
		if strings.HasPrefix(line, cursorPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}
