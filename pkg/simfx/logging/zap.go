package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/zap"
)

// NewZap returns a Logger that writes through a zap.Logger. Arguments follow
// the slog convention: alternating keys and values, or slog.Attr values.
// Passing nil discards everything.
func NewZap(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{logger: logger}
}

type zapLogger struct {
	logger *zap.Logger
}

func (l *zapLogger) Debug(_ context.Context, msg string, args ...any) {
	l.logger.Debug(msg, zapFields(args)...)
}

func (l *zapLogger) Info(_ context.Context, msg string, args ...any) {
	l.logger.Info(msg, zapFields(args)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logger.Warn(msg, zapFields(args)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, args ...any) {
	l.logger.Error(msg, zapFields(args)...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{logger: l.logger.With(zapFields(args)...)}
}

// zapFields converts slog-style arguments. A dangling key is logged under
// "!BADKEY", matching slog.
func zapFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2+1)
	for len(args) > 0 {
		switch a := args[0].(type) {
		case slog.Attr:
			fields = append(fields, zap.Any(a.Key, a.Value.Any()))
			args = args[1:]
		case string:
			if len(args) == 1 {
				fields = append(fields, zap.String("!BADKEY", a))
				args = nil
				continue
			}
			fields = append(fields, zap.Any(a, args[1]))
			args = args[2:]
		default:
			fields = append(fields, zap.Any("!BADKEY", fmt.Sprint(a)))
			args = args[1:]
		}
	}
	return fields
}
