package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler sends every record to each non-nil handler. A single handler is
// returned as is.
func MultiHandler(handlers ...slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, 0, len(handlers))
	for _, handler := range handlers {
		if handler != nil {
			sinks = append(sinks, handler)
		}
	}
	switch len(sinks) {
	case 0:
		return Discard().Handler()
	case 1:
		return sinks[0]
	default:
		return &fanoutHandler{sinks: sinks}
	}
}

type fanoutHandler struct {
	sinks []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range f.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives each sink its own copy of the record and joins their errors.
func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, sink := range f.sinks {
		if !sink.Enabled(ctx, record.Level) {
			continue
		}
		if err := sink.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (f *fanoutHandler) derive(apply func(slog.Handler) slog.Handler) *fanoutHandler {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, sink := range f.sinks {
		sinks[i] = apply(sink)
	}
	return &fanoutHandler{sinks: sinks}
}
