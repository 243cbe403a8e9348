package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(cfg *ManagerConfig) (*CtxZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &CtxZapLogger{base: zap.New(core), module: "test", config: cfg}, logs
}

func TestCtxZapLogger_Levels(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.EnableStacktrace = false
	l, logs := newObservedLogger(&cfg)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.NotContains(t, entries[3].ContextMap(), "stack")
}

func TestCtxZapLogger_ErrorStack(t *testing.T) {
	cfg := DefaultManagerConfig()
	l, logs := newObservedLogger(&cfg)

	l.Error("boom")

	entry := logs.All()[0]
	assert.Contains(t, entry.ContextMap(), "stack")
}

func TestCtxZapLogger_OtelTraceID(t *testing.T) {
	cfg := DefaultManagerConfig()
	l, logs := newObservedLogger(&cfg)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	// a span context wins over the plain key
	ctx = ContextWithTraceID(ctx, "trace_id", "ignored")

	l.InfoCtx(ctx, "with span")

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", logs.All()[0].ContextMap()["trace_id"])
}

func TestCtxZapLogger_CustomTraceField(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.TraceIDKey = "rid"
	cfg.TraceIDFieldName = "request_id"
	l, logs := newObservedLogger(&cfg)

	l.WarnCtx(ContextWithTraceID(context.Background(), "rid", "r-1"), "warned")

	assert.Equal(t, "r-1", logs.All()[0].ContextMap()["request_id"])
}

func TestCtxZapLogger_With(t *testing.T) {
	cfg := DefaultManagerConfig()
	l, logs := newObservedLogger(&cfg)

	child := l.With(zap.String("event", "ping"))
	child.Info("child")
	l.Info("parent")

	all := logs.All()
	assert.Equal(t, "ping", all[0].ContextMap()["event"])
	assert.NotContains(t, all[1].ContextMap(), "event")
	assert.Equal(t, "test", child.Module())
}

func TestCaptureStacktrace(t *testing.T) {
	stack := CaptureStacktrace(1, 2)
	assert.Contains(t, stack, "CaptureStacktrace")
	assert.LessOrEqual(t, len(splitLines(stack)), 4, "two frames, two lines each")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := range s {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
