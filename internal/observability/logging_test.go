package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/aelexs/tickhost/internal/observability"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, observability.ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerJSONCarriesServiceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "tickhost",
		Environment: "test",
		Output:      &buf,
	})

	logger.Info("pass complete", slog.String("tick_kind", "visual"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tickhost", rec["service"])
	assert.Equal(t, "test", rec["environment"])
	assert.Equal(t, "visual", rec["tick_kind"])
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Level: "error", Output: &buf})

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Format: "text", Output: &buf})

	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestWithTraceID(t *testing.T) {
	t.Run("no active span leaves logger unchanged", func(t *testing.T) {
		var buf bytes.Buffer
		base := observability.NewLogger(observability.LogConfig{Output: &buf})

		observability.WithTraceID(context.Background(), base).Info("x")

		assert.NotContains(t, buf.String(), "trace_id")
	})

	t.Run("active span adds trace id", func(t *testing.T) {
		tp := sdktrace.NewTracerProvider()
		defer func() { _ = tp.Shutdown(context.Background()) }()
		ctx, span := tp.Tracer("test").Start(context.Background(), "pass")
		defer span.End()

		var buf bytes.Buffer
		base := observability.NewLogger(observability.LogConfig{Output: &buf})
		observability.WithTraceID(ctx, base).Info("x")

		assert.Contains(t, buf.String(), span.SpanContext().TraceID().String())
	})
}
