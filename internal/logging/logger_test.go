package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestInitWritesJSONWithServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production")

	Info(context.Background(), "slot created", "slot", 7)

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "slot created", records[0]["msg"])
	assert.Equal(t, "smart-parking", records[0]["service"])
	assert.Equal(t, "production", records[0]["environment"])
	assert.EqualValues(t, 7, records[0]["slot"])
}

func TestDebugOnlyInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production")
	Debug(context.Background(), "hidden")
	assert.Empty(t, decodeLines(t, &buf))

	InitWithWriter(&buf, "smart-parking", "development")
	Debug(context.Background(), "shown")
	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	Warn(ctx, "slot already vacant")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), records[0]["traceId"])
	assert.Equal(t, span.SpanContext().SpanID().String(), records[0]["spanId"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	l := slog.New(h).With("component", "test")

	l.Info("info only")
	l.Error("both")

	assert.Len(t, decodeLines(t, &a), 2)
	errs := decodeLines(t, &b)
	require.Len(t, errs, 1)
	assert.Equal(t, "both", errs[0]["msg"])
	assert.Equal(t, "test", errs[0]["component"])
}
