package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Enricher pulls a request-scoped attribute out of a context. Returning
// false skips the attribute for that record.
type Enricher func(ctx context.Context) (slog.Attr, bool)

type options struct {
	out       io.Writer
	level     slog.Leveler
	enrichers []Enricher
}

// Option configures New.
type Option func(*options)

// WithOutput redirects log output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLevel sets the minimum level. Defaults to Info.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithEnrichers adds context enrichers applied to every record.
func WithEnrichers(enrichers ...Enricher) Option {
	return func(o *options) {
		o.enrichers = append(o.enrichers, enrichers...)
	}
}

// New creates a JSON logger. Enrichers run on every log call so
// request-scoped values (request ID, authenticated user) stay fresh.
func New(opts ...Option) *slog.Logger {
	o := options{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}

	h := slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level})
	return slog.New(Enrich(h, o.enrichers...))
}

// Discard returns a logger that drops everything. Used as the default
// until a real logger is configured.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
