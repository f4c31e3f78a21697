package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler forwards records to a handler that can be replaced at
// runtime, so loggers created before the upgrade keep working after it.
type SwappableHandler struct {
	handler atomic.Pointer[slog.Handler]
}

// NewSwappableHandler creates a handler with an initial handler.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	sh := &SwappableHandler{}
	sh.handler.Store(&initial)
	return sh
}

// Swap atomically replaces the underlying handler.
func (sh *SwappableHandler) Swap(next slog.Handler) {
	sh.handler.Store(&next)
}

func (sh *SwappableHandler) current() slog.Handler {
	return *sh.handler.Load()
}

// Enabled reports whether the handler handles records at the given level.
func (sh *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.current().Enabled(ctx, level)
}

// Handle handles the Record.
func (sh *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return sh.current().Handle(ctx, r)
}

// WithAttrs returns a derived handler that applies attrs to whatever handler
// is current when a record is handled.
func (sh *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedHandler{parent: sh, apply: func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) }}
}

// WithGroup returns a derived handler that opens the group on whatever
// handler is current when a record is handled.
func (sh *SwappableHandler) WithGroup(name string) slog.Handler {
	return &derivedHandler{parent: sh, apply: func(h slog.Handler) slog.Handler { return h.WithGroup(name) }}
}

// derivedHandler carries With/WithGroup calls made on a SwappableHandler
// across later swaps.
type derivedHandler struct {
	parent *SwappableHandler
	apply  func(slog.Handler) slog.Handler
}

func (d *derivedHandler) resolve() slog.Handler {
	return d.apply(d.parent.current())
}

func (d *derivedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return d.parent.current().Enabled(ctx, level)
}

func (d *derivedHandler) Handle(ctx context.Context, r slog.Record) error {
	return d.resolve().Handle(ctx, r)
}

func (d *derivedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prev := d.apply
	return &derivedHandler{parent: d.parent, apply: func(h slog.Handler) slog.Handler { return prev(h).WithAttrs(attrs) }}
}

func (d *derivedHandler) WithGroup(name string) slog.Handler {
	prev := d.apply
	return &derivedHandler{parent: d.parent, apply: func(h slog.Handler) slog.Handler { return prev(h).WithGroup(name) }}
}
