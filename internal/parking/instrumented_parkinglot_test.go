package parking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type instrumentedFixture struct {
	lot      *InstrumentedParkingLot
	spans    *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
	shutdown func()
}

func newInstrumentedFixture(t *testing.T) *instrumentedFixture {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	ipl, err := NewInstrumentedParkingLot(NewParkingLot(newFakeRepo()), tp.Tracer("test"), mp.Meter("test"))
	require.NoError(t, err)

	return &instrumentedFixture{
		lot:    ipl,
		spans:  spans,
		reader: reader,
		shutdown: func() {
			_ = tp.Shutdown(context.Background())
			_ = mp.Shutdown(context.Background())
		},
	}
}

func (f *instrumentedFixture) collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not recorded", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func gaugeValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not recorded", name)
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "metric %s is not an int64 gauge", name)
	require.Len(t, gauge.DataPoints, 1)
	return gauge.DataPoints[0].Value
}

func TestInstrumentedParkingLotIntegration(t *testing.T) {
	f := newInstrumentedFixture(t)
	defer f.shutdown()

	ctx := context.Background()

	created, err := f.lot.SeedSamples(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	result, err := f.lot.Park(ctx, true, true, "")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Slot.ID)

	slot, err := f.lot.GetSlot(ctx, 1)
	require.NoError(t, err)
	assert.True(t, slot.Occupied)

	available, err := f.lot.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 5)

	rm := f.collect(t)
	assert.Equal(t, int64(1), sumCounter(t, rm, "parking_operations_total"))
	assert.Equal(t, int64(6), sumCounter(t, rm, "slots_created_total"))
	assert.Equal(t, int64(6), gaugeValue(t, rm, "parking_lot_total_slots"))
	assert.Equal(t, int64(1), gaugeValue(t, rm, "parking_lot_occupied_slots"))

	_, err = f.lot.Leave(ctx, 1)
	require.NoError(t, err)

	rm = f.collect(t)
	assert.Equal(t, int64(1), sumCounter(t, rm, "leaving_operations_total"))
	assert.Equal(t, int64(0), gaugeValue(t, rm, "parking_lot_occupied_slots"))
}

func TestInstrumentedParkRecordsSpan(t *testing.T) {
	f := newInstrumentedFixture(t)
	defer f.shutdown()

	ctx := context.Background()
	_, err := f.lot.AddSlot(ctx, 7, false, true)
	require.NoError(t, err)

	_, err = f.lot.Park(ctx, true, false, "Scooter")
	require.NoError(t, err)

	var parkSpan sdktrace.ReadOnlySpan
	for _, s := range f.spans.Ended() {
		if s.Name() == "parking_lot.park" {
			parkSpan = s
		}
	}
	require.NotNil(t, parkSpan)

	attrs := map[string]any{}
	for _, kv := range parkSpan.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["request.needs_ev"])
	assert.Equal(t, "Scooter", attrs["vehicle.type"])
	assert.Equal(t, int64(7), attrs["allocated_slot_number"])
}

func TestInstrumentedLeaveErrorMarksSpan(t *testing.T) {
	f := newInstrumentedFixture(t)
	defer f.shutdown()

	_, err := f.lot.Leave(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	ended := f.spans.Ended()
	require.NotEmpty(t, ended)
	last := ended[len(ended)-1]
	assert.Equal(t, "parking_lot.leave", last.Name())
	assert.Equal(t, codes.Error, last.Status().Code)
}

func TestInstrumentedParkNoSlot(t *testing.T) {
	f := newInstrumentedFixture(t)
	defer f.shutdown()

	result, err := f.lot.Park(context.Background(), false, false, "")
	require.NoError(t, err)
	assert.False(t, result.Success)

	m, ok := findMetric(f.collect(t), "parking_operations_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	status, ok := sum.DataPoints[0].Attributes.Value("status")
	require.True(t, ok)
	assert.Equal(t, "no_slot", status.AsString())
}
