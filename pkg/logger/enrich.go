package logger

import (
	"context"
	"log/slog"
)

// enrichHandler decorates a slog.Handler, appending context-derived
// attributes to each record before delegating.
type enrichHandler struct {
	next      slog.Handler
	enrichers []Enricher
}

// Enrich wraps a handler with context enrichers. Nil enrichers are
// filtered out.
func Enrich(next slog.Handler, enrichers ...Enricher) slog.Handler {
	kept := make([]Enricher, 0, len(enrichers))
	for _, e := range enrichers {
		if e != nil {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &enrichHandler{next: next, enrichers: kept}
}

func (h *enrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *enrichHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, e := range h.enrichers {
		if attr, ok := e(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *enrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &enrichHandler{next: h.next.WithAttrs(attrs), enrichers: h.enrichers}
}

func (h *enrichHandler) WithGroup(name string) slog.Handler {
	return &enrichHandler{next: h.next.WithGroup(name), enrichers: h.enrichers}
}
