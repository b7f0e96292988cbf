package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.With("model", "m-1").Debug(context.Background(), "created", "threads", 4, Redacted("licence"))

	out := buf.String()
	for _, want := range []string{"msg=created", "model=m-1", "threads=4", "licence=" + redactedPlaceholder} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %q", out, want)
		}
	}
}

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZap(zap.New(core)).With("model", "m-2")

	l.Info(context.Background(), "statics finished", "state", "InStaticState", slog.Int("samples", 3), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["model"] != "m-2" || fields["state"] != "InStaticState" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["samples"] != int64(3) {
		t.Fatalf("slog.Attr not converted: %v", fields["samples"])
	}
	if fields["!BADKEY"] != "dangling" {
		t.Fatalf("dangling key not reported: %v", fields)
	}
}

func TestNopAndNilZap(t *testing.T) {
	Nop().With("a", 1).Error(context.Background(), "ignored")
	NewZap(nil).Warn(context.Background(), "ignored")
}
