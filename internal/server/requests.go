package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	msgMissingSlotFields = "Please provide all required fields: slotNo, isCovered, isEVCharging"
	msgMissingSlotNo     = "Please provide slot number"
	msgInvalidBody       = "Invalid request body"

	maxBodyBytes = 1 << 20
)

var validate = validator.New()

// Pointer fields let "required" tell an absent flag from an explicit false.
type CreateSlotRequest struct {
	SlotNo       *int  `json:"slotNo" validate:"required,gt=0"`
	IsCovered    *bool `json:"isCovered" validate:"required"`
	IsEVCharging *bool `json:"isEVCharging" validate:"required"`
}

// Every field is optional; an empty body asks for any free slot.
type ParkRequest struct {
	NeedsEV     bool   `json:"needsEV"`
	NeedsCover  bool   `json:"needsCover"`
	VehicleType string `json:"vehicleType" validate:"max=64"`
}

type RemoveSlotRequest struct {
	SlotNo *int `json:"slotNo" validate:"required,gt=0"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
