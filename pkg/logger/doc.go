// Package logger builds structured slog loggers with context enrichment
// and optional Sentry fan-out.
package logger
