package parking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const NoSlotAvailableMessage = "No slot available"

// Lot is the set of operations exposed to the shell and the HTTP layer.
// Both *ParkingLot and *InstrumentedParkingLot implement it.
type Lot interface {
	ListSlots(ctx context.Context) ([]Slot, error)
	ListAvailable(ctx context.Context) ([]Slot, error)
	Park(ctx context.Context, needsEV, needsCovered bool, vehicleType string) (*ParkResult, error)
	Leave(ctx context.Context, id int) (*LeaveResult, error)
	AddSlot(ctx context.Context, id int, covered, evCharging bool) (*Slot, error)
	GetSlot(ctx context.Context, id int) (*Slot, error)
	SeedSamples(ctx context.Context) (int, error)
}

// ParkResult is the outcome of a park request. A request no free slot can
// satisfy is a normal negative result, not an error.
type ParkResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Slot    *Slot  `json:"data,omitempty"`
}

type LeaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sampleSlot struct {
	id         int
	covered    bool
	evCharging bool
}

var sampleSlots = []sampleSlot{
	{id: 1, covered: true, evCharging: true},
	{id: 2, covered: true, evCharging: false},
	{id: 3, covered: false, evCharging: true},
	{id: 4, covered: false, evCharging: false},
	{id: 5, covered: true, evCharging: true},
	{id: 6, covered: false, evCharging: false},
}

// ParkingLot allocates slots from a Repository. It keeps no state of its
// own; every call reads the store as it is at call time.
//
// Park and Leave read a slot and write it back without any lock or
// conditional update, so two concurrent requests can both claim the same
// free slot.
type ParkingLot struct {
	repo Repository
	now  func() time.Time
}

var _ Lot = (*ParkingLot)(nil)

func NewParkingLot(repo Repository) *ParkingLot {
	return &ParkingLot{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (pl *ParkingLot) ListSlots(ctx context.Context) ([]Slot, error) {
	slots, err := pl.repo.Find(ctx, Filter{})
	if err != nil {
		return nil, fmt.Errorf("fetching slots: %w", err)
	}
	return slots, nil
}

func (pl *ParkingLot) ListAvailable(ctx context.Context) ([]Slot, error) {
	slots, err := pl.repo.Find(ctx, AvailableFilter())
	if err != nil {
		return nil, fmt.Errorf("fetching available slots: %w", err)
	}
	return slots, nil
}

// Park occupies the nearest free slot, the one with the lowest ID, that
// has every requested feature.
func (pl *ParkingLot) Park(ctx context.Context, needsEV, needsCovered bool, vehicleType string) (*ParkResult, error) {
	candidates, err := pl.repo.Find(ctx, AllocationFilter(needsEV, needsCovered))
	if err != nil {
		return nil, fmt.Errorf("finding free slot: %w", err)
	}

	slot, ok := nearest(candidates)
	if !ok {
		return &ParkResult{Success: false, Message: NoSlotAvailableMessage}, nil
	}

	slot.Park(NormalizeVehicleType(vehicleType), pl.now())
	if err := pl.repo.Save(ctx, &slot); err != nil {
		return nil, fmt.Errorf("saving slot %d: %w", slot.ID, err)
	}

	return &ParkResult{
		Success: true,
		Message: fmt.Sprintf("Vehicle parked successfully at Slot %d", slot.ID),
		Slot:    &slot,
	}, nil
}

func (pl *ParkingLot) Leave(ctx context.Context, id int) (*LeaveResult, error) {
	slot, err := pl.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !slot.Occupied {
		return nil, &SlotError{Err: ErrAlreadyVacant, ID: id}
	}

	slot.Leave(pl.now())
	if err := pl.repo.Save(ctx, slot); err != nil {
		return nil, fmt.Errorf("saving slot %d: %w", id, err)
	}

	return &LeaveResult{
		Success: true,
		Message: fmt.Sprintf("Vehicle removed from Slot %d", id),
	}, nil
}

func (pl *ParkingLot) AddSlot(ctx context.Context, id int, covered, evCharging bool) (*Slot, error) {
	if id < 1 {
		return nil, &SlotError{Err: ErrValidation, ID: id}
	}

	slot := NewSlot(id, covered, evCharging, pl.now())
	if err := pl.repo.Create(ctx, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (pl *ParkingLot) GetSlot(ctx context.Context, id int) (*Slot, error) {
	return pl.repo.FindByID(ctx, id)
}

// SeedSamples creates the sample catalogue, skipping IDs that already
// exist, and returns how many slots it created.
func (pl *ParkingLot) SeedSamples(ctx context.Context) (int, error) {
	created := 0
	for _, s := range sampleSlots {
		_, err := pl.repo.FindByID(ctx, s.id)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, fmt.Errorf("adding sample slots: %w", err)
		}

		slot := NewSlot(s.id, s.covered, s.evCharging, pl.now())
		if err := pl.repo.Create(ctx, &slot); err != nil {
			if errors.Is(err, ErrDuplicateID) {
				continue
			}
			return created, fmt.Errorf("adding sample slots: %w", err)
		}
		created++
	}
	return created, nil
}

func nearest(slots []Slot) (Slot, bool) {
	if len(slots) == 0 {
		return Slot{}, false
	}
	best := slots[0]
	for _, s := range slots[1:] {
		if s.ID < best.ID {
			best = s
		}
	}
	return best, true
}
