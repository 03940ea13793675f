package parking

import "time"

// Slot is a parking space with fixed features and mutable occupancy.
// VehicleType is non-nil exactly when Occupied is true.
type Slot struct {
	ID          int       `json:"slotNo"`
	Covered     bool      `json:"isCovered"`
	EVCharging  bool      `json:"isEVCharging"`
	Occupied    bool      `json:"isOccupied"`
	VehicleType *string   `json:"vehicleType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewSlot(id int, covered, evCharging bool, now time.Time) Slot {
	return Slot{
		ID:          id,
		Covered:     covered,
		EVCharging:  evCharging,
		Occupied:    false,
		VehicleType: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Slot) Park(vehicleType string, now time.Time) {
	vt := vehicleType
	s.VehicleType = &vt
	s.Occupied = true
	s.UpdatedAt = now
}

// Leave frees the slot and returns the vehicle type that occupied it.
func (s *Slot) Leave(now time.Time) string {
	var vehicleType string
	if s.VehicleType != nil {
		vehicleType = *s.VehicleType
	}
	s.VehicleType = nil
	s.Occupied = false
	s.UpdatedAt = now
	return vehicleType
}

// Vehicle returns the occupying vehicle type, or "" for a free slot.
func (s Slot) Vehicle() string {
	if s.VehicleType == nil {
		return ""
	}
	return *s.VehicleType
}
