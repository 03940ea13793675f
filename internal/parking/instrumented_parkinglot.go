package parking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"smart-parking/internal/logging"
)

type InstrumentedParkingLot struct {
	*ParkingLot
	tracer trace.Tracer

	// Metrics
	parkingOperations metric.Int64Counter
	leavingOperations metric.Int64Counter
	slotsCreated      metric.Int64Counter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64ObservableGauge
	occupancyGauge    metric.Int64ObservableGauge
}

var _ Lot = (*InstrumentedParkingLot)(nil)

func NewInstrumentedParkingLot(base *ParkingLot, tracer trace.Tracer, meter metric.Meter) (*InstrumentedParkingLot, error) {
	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	leavingOperations, err := meter.Int64Counter("leaving_operations_total",
		metric.WithDescription("Total number of leaving operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	slotsCreated, err := meter.Int64Counter("slots_created_total",
		metric.WithDescription("Total number of parking slots created"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64ObservableGauge("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64ObservableGauge("parking_lot_occupied_slots",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedParkingLot{
		ParkingLot:        base,
		tracer:            tracer,
		parkingOperations: parkingOperations,
		leavingOperations: leavingOperations,
		slotsCreated:      slotsCreated,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
		occupancyGauge:    occupancyGauge,
	}

	// Gauges are read from the store on every collection.
	if _, err := meter.RegisterCallback(ipl.observeOccupancy, totalSlotsGauge, occupancyGauge); err != nil {
		return nil, err
	}

	return ipl, nil
}

func (ipl *InstrumentedParkingLot) observeOccupancy(ctx context.Context, o metric.Observer) error {
	slots, err := ipl.ParkingLot.ListSlots(ctx)
	if err != nil {
		return err
	}

	occupied := 0
	for _, s := range slots {
		if s.Occupied {
			occupied++
		}
	}

	o.ObserveInt64(ipl.totalSlotsGauge, int64(len(slots)))
	o.ObserveInt64(ipl.occupancyGauge, int64(occupied))
	return nil
}

func (ipl *InstrumentedParkingLot) recordDuration(ctx context.Context, operation, status string, start time.Time) {
	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (ipl *InstrumentedParkingLot) ListSlots(ctx context.Context) ([]Slot, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.list_slots")
	defer span.End()

	start := time.Now()

	slots, err := ipl.ParkingLot.ListSlots(ctx)
	if err != nil {
		failSpan(span, err)
		ipl.recordDuration(ctx, "list_slots", "failed", start)
		logging.Error(ctx, "listing slots failed", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("slots_count", len(slots)))
	ipl.recordDuration(ctx, "list_slots", "success", start)

	return slots, nil
}

func (ipl *InstrumentedParkingLot) ListAvailable(ctx context.Context) ([]Slot, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.list_available")
	defer span.End()

	start := time.Now()

	slots, err := ipl.ParkingLot.ListAvailable(ctx)
	if err != nil {
		failSpan(span, err)
		ipl.recordDuration(ctx, "list_available", "failed", start)
		logging.Error(ctx, "listing available slots failed", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("available_slots_count", len(slots)))
	ipl.recordDuration(ctx, "list_available", "success", start)

	return slots, nil
}

func (ipl *InstrumentedParkingLot) Park(ctx context.Context, needsEV, needsCovered bool, vehicleType string) (*ParkResult, error) {
	vehicleType = NormalizeVehicleType(vehicleType)

	ctx, span := ipl.tracer.Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.Bool("request.needs_ev", needsEV),
			attribute.Bool("request.needs_covered", needsCovered),
			attribute.String("vehicle.type", vehicleType),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_slot")

	result, err := ipl.ParkingLot.Park(ctx, needsEV, needsCovered, vehicleType)

	labels := []attribute.KeyValue{
		attribute.Bool("needs_ev", needsEV),
		attribute.Bool("needs_covered", needsCovered),
		attribute.String("vehicle_type", vehicleType),
	}

	var status string
	switch {
	case err != nil:
		status = "failed"
		failSpan(span, err)
		logging.Error(ctx, "parking failed", "needs_ev", needsEV, "needs_covered", needsCovered, "error", err)
	case !result.Success:
		status = "no_slot"
		span.AddEvent("no_slot_available")
		logging.Info(ctx, "no slot available", "needs_ev", needsEV, "needs_covered", needsCovered)
	default:
		status = "success"
		span.SetAttributes(attribute.Int("allocated_slot_number", result.Slot.ID))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.Int("slot_number", result.Slot.ID),
		))
		logging.Info(ctx, "vehicle parked",
			"slot", result.Slot.ID,
			"vehicle_type", vehicleType,
			"needs_ev", needsEV,
			"needs_covered", needsCovered,
		)
	}

	labels = append(labels, attribute.String("status", status))
	ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.recordDuration(ctx, "park", status, start)

	return result, err
}

func (ipl *InstrumentedParkingLot) Leave(ctx context.Context, id int) (*LeaveResult, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.leave",
		trace.WithAttributes(
			attribute.Int("slot_number", id),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	result, err := ipl.ParkingLot.Leave(ctx, id)

	var status string
	switch {
	case err == nil:
		status = "success"
		span.AddEvent("slot_released")
		logging.Info(ctx, "vehicle removed", "slot", id)
	case errors.Is(err, ErrNotFound):
		status = "not_found"
		failSpan(span, err)
		logging.Warn(ctx, "leave on unknown slot", "slot", id)
	case errors.Is(err, ErrAlreadyVacant):
		status = "already_vacant"
		failSpan(span, err)
		logging.Warn(ctx, "leave on vacant slot", "slot", id)
	default:
		status = "failed"
		failSpan(span, err)
		logging.Error(ctx, "leave failed", "slot", id, "error", err)
	}

	ipl.leavingOperations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	ipl.recordDuration(ctx, "leave", status, start)

	return result, err
}

func (ipl *InstrumentedParkingLot) AddSlot(ctx context.Context, id int, covered, evCharging bool) (*Slot, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.add_slot",
		trace.WithAttributes(
			attribute.Int("slot_number", id),
			attribute.Bool("slot.covered", covered),
			attribute.Bool("slot.ev_charging", evCharging),
		))
	defer span.End()

	start := time.Now()

	slot, err := ipl.ParkingLot.AddSlot(ctx, id, covered, evCharging)
	if err != nil {
		failSpan(span, err)
		ipl.recordDuration(ctx, "add_slot", "failed", start)
		logging.Warn(ctx, "slot not created", "slot", id, "error", err)
		return nil, err
	}

	ipl.slotsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "api")))
	ipl.recordDuration(ctx, "add_slot", "success", start)
	logging.Info(ctx, "slot created", "slot", id, "covered", covered, "ev_charging", evCharging)

	return slot, nil
}

func (ipl *InstrumentedParkingLot) GetSlot(ctx context.Context, id int) (*Slot, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.get_slot",
		trace.WithAttributes(
			attribute.Int("slot_number", id),
		))
	defer span.End()

	start := time.Now()

	slot, err := ipl.ParkingLot.GetSlot(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			span.AddEvent("slot_not_found")
			ipl.recordDuration(ctx, "get_slot", "not_found", start)
		} else {
			failSpan(span, err)
			ipl.recordDuration(ctx, "get_slot", "failed", start)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Bool("slot.occupied", slot.Occupied))
	ipl.recordDuration(ctx, "get_slot", "found", start)

	return slot, nil
}

func (ipl *InstrumentedParkingLot) SeedSamples(ctx context.Context) (int, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.seed_samples")
	defer span.End()

	start := time.Now()

	created, err := ipl.ParkingLot.SeedSamples(ctx)
	if created > 0 {
		ipl.slotsCreated.Add(ctx, int64(created), metric.WithAttributes(attribute.String("source", "sample")))
	}
	span.SetAttributes(attribute.Int("slots_created", created))

	if err != nil {
		failSpan(span, err)
		ipl.recordDuration(ctx, "seed_samples", "failed", start)
		logging.Error(ctx, "seeding sample slots failed", "created", created, "error", err)
		return created, err
	}

	ipl.recordDuration(ctx, "seed_samples", "success", start)
	logging.Info(ctx, "sample slots ensured", "created", created)

	return created, nil
}
