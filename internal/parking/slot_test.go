package parking

import (
	"testing"
	"time"
)

func TestNewSlot(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	slot := NewSlot(1, true, false, now)

	if slot.ID != 1 {
		t.Errorf("Expected slot number 1, got %d", slot.ID)
	}

	if !slot.Covered || slot.EVCharging {
		t.Errorf("Expected covered non-EV slot, got covered=%v ev=%v", slot.Covered, slot.EVCharging)
	}

	if slot.Occupied {
		t.Error("Expected new slot to be unoccupied")
	}

	if slot.VehicleType != nil {
		t.Error("Expected new slot to have no vehicle type")
	}

	if !slot.CreatedAt.Equal(now) || !slot.UpdatedAt.Equal(now) {
		t.Error("Expected timestamps to be set to creation time")
	}
}

func TestSlotPark(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	slot := NewSlot(1, false, true, created)

	parkedAt := created.Add(time.Hour)
	slot.Park("Bike", parkedAt)

	if !slot.Occupied {
		t.Error("Expected slot to be occupied after parking")
	}

	if slot.Vehicle() != "Bike" {
		t.Errorf("Expected vehicle type Bike, got %q", slot.Vehicle())
	}

	if !slot.UpdatedAt.Equal(parkedAt) {
		t.Error("Expected UpdatedAt to move to parking time")
	}

	if !slot.CreatedAt.Equal(created) {
		t.Error("Expected CreatedAt to stay unchanged")
	}
}

func TestSlotLeave(t *testing.T) {
	now := time.Now()
	slot := NewSlot(1, true, true, now)

	slot.Park("Car", now)
	vehicleType := slot.Leave(now)

	if slot.Occupied {
		t.Error("Expected slot to be unoccupied after leaving")
	}

	if slot.VehicleType != nil {
		t.Error("Expected slot to have no vehicle type after leaving")
	}

	if vehicleType != "Car" {
		t.Errorf("Expected leaving vehicle type Car, got %q", vehicleType)
	}

	if !slot.Covered || !slot.EVCharging {
		t.Error("Expected features to be unchanged by park/leave")
	}
}
