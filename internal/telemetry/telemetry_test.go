package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitReturnsProvider(t *testing.T) {
	ctx := context.Background()
	// Nothing listens on the endpoint; exporting fails later but Init must not.
	p, err := Init(ctx, "smart-parking-test", "http://localhost:4318", "test")
	require.NoError(t, err)
	assert.NotNil(t, p.Tracer)
	assert.NotNil(t, p.Meter)
	assert.NotNil(t, p.TracerProvider)
	assert.NotNil(t, p.MeterProvider)
	assert.NotNil(t, p.LoggerProvider)

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = p.Shutdown(shutdownCtx)
}

func TestNoopProviderRecordsSpans(t *testing.T) {
	p := NewNoop("smart-parking-test")
	defer p.Shutdown(context.Background())

	_, span := p.Tracer.Start(context.Background(), "noop.span")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
}
