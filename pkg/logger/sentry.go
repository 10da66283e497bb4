package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures Sentry error reporting.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level mirrored to Sentry logs. Errors always
	// create Sentry issues.
	MinLevel slog.Level
}

// NewWithSentry creates a JSON logger that fans records out to stdout and
// Sentry. An empty DSN or a failed SDK init falls back to stdout only, so
// the same construction works in development.
func NewWithSentry(cfg SentryConfig, opts ...Option) *slog.Logger {
	o := options{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}
	local := slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level})

	if cfg.DSN == "" {
		return slog.New(Enrich(local, o.enrichers...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(Enrich(local, o.enrichers...))
	}

	eventLevels := []slog.Level{slog.LevelError}
	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: eventLevels,
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(Enrich(newFanoutHandler(local, remote), o.enrichers...))
}
