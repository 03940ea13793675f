package parking

import "strings"

const DefaultVehicleType = "Car"

// NormalizeVehicleType trims the label and falls back to DefaultVehicleType
// when nothing usable was supplied.
func NormalizeVehicleType(vehicleType string) string {
	vehicleType = strings.TrimSpace(vehicleType)
	if vehicleType == "" {
		return DefaultVehicleType
	}
	return vehicleType
}
