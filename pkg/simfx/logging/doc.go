// Package logging provides a minimal logging facade for the simfx wrapper.
//
// This package defines a Logger interface that wraps a subset of the standard
// library's log/slog functionality. The interface is intentionally small to
// allow applications to provide custom implementations for testing, redaction,
// or integration with existing logging systems.
//
// # Implementations
//
// New binds to a *slog.Logger (slog.Default() when nil). NewZap binds to a
// *zap.Logger and accepts the same slog-style key/value arguments, so call
// sites do not change when an application logs through zap. Nop discards
// everything.
//
//	logger := logging.New(nil)
//	logger.Info(ctx, "statics finished", "model", id, "state", state)
//
//	zl, _ := zap.NewProduction()
//	logger = logging.NewZap(zl)
//
// # What gets logged
//
// The façade logs lifecycle events: library open and close, model and
// diffraction creation and destruction, and the start and end of long-running
// engine calls. Every model logger carries a "model" correlation id.
//
// Library and data file paths can name customer projects. With
// simfx.Config.RedactPaths set, the façade logs them through Redacted:
//
//	logger.Debug(ctx, "load data", logging.Redacted("file"))
//	// Logs: file="[redacted]"
package logging
