package logging

import (
	"context"
	"log/slog"
	"time"
)

// Attr mirrors slog.Attr so callers can build structured fields without
// importing slog alongside this package.
type Attr = slog.Attr

const (
	// FieldComponent tags log records with the subsystem that emitted them.
	FieldComponent = "component"

	// FieldError carries the error message on failure records.
	FieldError = "error"
)

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Any(key string, value any) Attr { return slog.Any(key, value) }

// Error produces the conventional error attribute, tolerating nil.
func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// Args converts attrs to the variadic ...any form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// NewComponentLogger returns a child logger tagged with a component field.
// A nil base yields a no-op logger so library code can log unconditionally.
func NewComponentLogger(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		return NewNop()
	}
	return base.With(String(FieldComponent, component))
}

// NewNop returns a logger that discards every record.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NoopHandler drops all records.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h NoopHandler) WithGroup(string) slog.Handler           { return h }
