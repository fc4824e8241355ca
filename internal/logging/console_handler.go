package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders records as a single human-readable line:
// timestamp, level label, optional component prefix, message, then
// key=value attrs sorted by key.
type consoleHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

func newConsoleHandler(out io.Writer, level slog.Leveler) slog.Handler {
	return &consoleHandler{
		mu:    &sync.Mutex{},
		out:   out,
		level: level,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(string) slog.Handler {
	// Groups are flattened; the console line stays one level deep.
	return h
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := map[string]string{}
	for _, attr := range h.attrs {
		collectAttr(fields, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		collectAttr(fields, attr)
		return true
	})

	var sb strings.Builder
	sb.WriteString(record.Time.UTC().Format(time.RFC3339))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(record.Level))
	sb.WriteByte(' ')

	if component, ok := fields[FieldComponent]; ok && component != "" {
		sb.WriteByte('[')
		sb.WriteString(component)
		sb.WriteString("] ")
		delete(fields, FieldComponent)
	}

	sb.WriteString(record.Message)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(quoteIfNeeded(fields[key]))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func collectAttr(fields map[string]string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		for _, nested := range attr.Value.Group() {
			if attr.Key != "" {
				nested.Key = attr.Key + "." + nested.Key
			}
			collectAttr(fields, nested)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	fields[attr.Key] = fmt.Sprint(attr.Value.Any())
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, " \t\"=") {
		return fmt.Sprintf("%q", value)
	}
	return value
}
