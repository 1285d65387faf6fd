// Package log provides the structured logger shared by the relay engine and
// CLI. It exposes a small Field-based API over a log/slog bridge with
// pluggable formatters (JSON by default, text for the CLI) and outputs.
//
// Usage:
//
//	logger := log.NewLogger(
//	    log.WithLevel(log.DebugLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	)
//	logger = logger.With(log.Component("relay"))
//	logger.Info("track announced", log.Str("track", name), log.Uint64("alias", alias))
package log
