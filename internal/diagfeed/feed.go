package diagfeed

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"diagterm/internal/logging"
)

// DefaultLimit is the feed buffer capacity when none is configured.
const DefaultLimit = 120

// Selection identifies the active log backend.
type Selection string

const (
	// SelectionNone means no backend has been probed yet.
	SelectionNone Selection = "none"
	// SelectionJournal means entries come from journalctl cursors.
	SelectionJournal Selection = "journal"
	// SelectionDmesg means entries come from ring-buffer tail diffs.
	SelectionDmesg Selection = "dmesg"
	// SelectionUnavailable means no tool is usable; polls return empty
	// resets until the process restarts.
	SelectionUnavailable Selection = "unavailable"
)

// Tools holds resolved log-source binaries. An empty path marks a tool as
// absent; resolution happens once, at construction, never mid-run.
type Tools struct {
	Journal string
	Dmesg   string
}

// DetectTools resolves the log-source binaries from PATH.
func DetectTools() Tools {
	var t Tools
	if path, err := exec.LookPath("journalctl"); err == nil {
		t.Journal = path
	}
	if path, err := exec.LookPath("dmesg"); err == nil {
		t.Dmesg = path
	}
	return t
}

// Options configures a Feed.
type Options struct {
	Tools   Tools
	Limit   int
	Timeout time.Duration
	Invoker Invoker
	Logger  *slog.Logger
}

// Feed owns backend selection, failover, and the poll/snapshot contract.
// See the package documentation for the locking discipline.
type Feed struct {
	limit   int
	logger  *slog.Logger
	journal *journalBackend
	dmesg   *dmesgBackend

	selection Selection
	cursor    string
	tail      string
	buffer    *lineBuffer
}

// New constructs a feed from resolved tools. Backends whose binary is absent
// are never probed.
func New(opts Options) *Feed {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	invoker := opts.Invoker
	if invoker == nil {
		invoker = NewInvoker(opts.Timeout)
	}

	f := &Feed{
		limit:     limit,
		logger:    logging.NewComponentLogger(opts.Logger, "diagfeed"),
		selection: SelectionNone,
		buffer:    newLineBuffer(limit),
	}
	if opts.Tools.Journal != "" {
		f.journal = newJournalBackend(opts.Tools.Journal, limit, invoker)
	}
	if opts.Tools.Dmesg != "" {
		f.dmesg = newDmesgBackend(opts.Tools.Dmesg, invoker)
	}
	return f
}

// Limit reports the buffer capacity.
func (f *Feed) Limit() int {
	return f.limit
}

// Selection reports the current backend selection.
func (f *Feed) Selection() Selection {
	return f.selection
}

// Snapshot returns the current buffer, oldest first, without fetching.
func (f *Feed) Snapshot() []string {
	return f.buffer.lines()
}

// Poll fetches new diagnostics. When reset is true the caller must discard
// its current view and treat lines (or Snapshot when lines is empty) as the
// complete picture; otherwise lines are pure appends. Tool failures never
// propagate: they demote the backend and resolve to a reset.
func (f *Feed) Poll(ctx context.Context) (lines []string, reset bool) {
	if f.selection == SelectionNone {
		switch {
		case f.journal != nil:
			f.selection = SelectionJournal
		case f.dmesg != nil:
			f.selection = SelectionDmesg
		default:
			f.selection = SelectionUnavailable
			f.logger.Warn("no log-source tool found; diagnostics feed disabled")
		}
	}

	switch f.selection {
	case SelectionJournal:
		lines, reset, err := f.pollJournal(ctx)
		if err == nil {
			return lines, reset
		}
		f.logger.Warn("journal backend failed, falling back to dmesg", logging.Error(err))
		return f.demoteToDmesg(ctx)
	case SelectionDmesg:
		lines, reset, err := f.pollDmesg(ctx, false)
		if err == nil {
			return lines, reset
		}
		f.logger.Warn("dmesg backend failed, feed unavailable", logging.Error(err))
		return f.becomeUnavailable()
	default:
		return nil, true
	}
}

// demoteToDmesg performs the forced-reset fetch on the fallback backend so
// the caller never observes a gap between backends.
func (f *Feed) demoteToDmesg(ctx context.Context) ([]string, bool) {
	f.cursor = ""
	if f.dmesg == nil {
		return f.becomeUnavailable()
	}
	f.selection = SelectionDmesg
	lines, reset, err := f.pollDmesg(ctx, true)
	if err != nil {
		f.logger.Warn("dmesg backend failed, feed unavailable", logging.Error(err))
		return f.becomeUnavailable()
	}
	return lines, reset
}

func (f *Feed) becomeUnavailable() ([]string, bool) {
	f.selection = SelectionUnavailable
	f.cursor = ""
	f.tail = ""
	f.buffer.clear()
	return nil, true
}

func (f *Feed) pollJournal(ctx context.Context) ([]string, bool, error) {
	hadCursor := f.cursor != ""
	lines, token, err := f.journal.fetch(ctx, f.cursor)
	if err != nil {
		return nil, false, err
	}

	if hadCursor {
		// After-cursor regime: the tool returns exactly the entries since
		// the last poll, so no further de-duplication is needed. A missing
		// trailer with no error means the source was idle; keep the cursor.
		if token != "" {
			f.cursor = token
		}
		for _, line := range lines {
			f.buffer.append(line)
		}
		if len(lines) > 0 {
			f.tail = f.buffer.last()
		}
		return lines, false, nil
	}

	if token != "" || f.tail == "" {
		// Initial fill, or the journal is empty: the window is the full
		// state.
		f.cursor = token
		f.buffer.replace(lines)
		f.tail = f.buffer.last()
		return f.buffer.lines(), true, nil
	}

	// Degraded mode: the tool never yields a cursor (older journalctl or
	// unsupported flag), so resync by tail matching like the ring buffer.
	return f.applyWindow(lines)
}

func (f *Feed) pollDmesg(ctx context.Context, forceReset bool) ([]string, bool, error) {
	window, err := f.dmesg.fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	if forceReset || f.tail == "" {
		f.buffer.replace(window)
		f.tail = f.buffer.last()
		return f.buffer.lines(), true, nil
	}
	return f.applyWindow(window)
}

// applyWindow tail-diffs a fresh window against the recorded marker. A
// missing marker means the ring rotated past it or the output format
// changed; both resolve to a full reset, never a partial delta.
func (f *Feed) applyWindow(window []string) ([]string, bool, error) {
	newLines, ok := diffAfterMarker(window, f.tail)
	if !ok {
		f.buffer.replace(window)
		f.tail = f.buffer.last()
		return f.buffer.lines(), true, nil
	}
	for _, line := range newLines {
		f.buffer.append(line)
	}
	if len(newLines) > 0 {
		f.tail = f.buffer.last()
	}
	return newLines, false, nil
}
