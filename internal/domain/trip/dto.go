package trip

import "fleetflow-service/internal/domain/vehicle"

type CreateTripRequest struct {
	TripType      string   `json:"trip_type" binding:"max=64"`
	Origin        string   `json:"origin" binding:"required,max=255"`
	Destination   string   `json:"destination" binding:"required,max=255"`
	CargoWeight   float64  `json:"cargo_weight" binding:"required,gt=0"`
	EstimatedFuel *float64 `json:"estimated_fuel" binding:"omitempty,gt=0"`
	VehicleID     *int64   `json:"vehicle_id"`
	DriverID      *int64   `json:"driver_id"`
}

// UpdateTripRequest carries a status change, field edits, or both. Which
// parts an actor may touch depends on their role; see the trip service.
type UpdateTripRequest struct {
	Status        *Status  `json:"status"`
	TripType      *string  `json:"trip_type" binding:"omitempty,max=64"`
	Origin        *string  `json:"origin" binding:"omitempty,max=255"`
	Destination   *string  `json:"destination" binding:"omitempty,max=255"`
	CargoWeight   *float64 `json:"cargo_weight" binding:"omitempty,gt=0"`
	EstimatedFuel *float64 `json:"estimated_fuel" binding:"omitempty,gt=0"`
	VehicleID     *int64   `json:"vehicle_id"`
	DriverID      *int64   `json:"driver_id"`
}

// HasFieldEdits reports whether the request touches anything beyond status.
func (r *UpdateTripRequest) HasFieldEdits() bool {
	return r.TripType != nil || r.Origin != nil || r.Destination != nil ||
		r.CargoWeight != nil || r.EstimatedFuel != nil ||
		r.VehicleID != nil || r.DriverID != nil
}

type ListFilters struct {
	Search string `form:"search"`
}

// TransitionEffects are the side effects a lifecycle step must persist
// atomically with the trip row. A partially applied transition is a bug;
// the repository applies everything in one transaction or nothing.
type TransitionEffects struct {
	VehicleID     *int64
	VehicleStatus *vehicle.Status
	// CompletedDriverID, when set, has its drivers.total_trips incremented by one.
	CompletedDriverID *int64
}
