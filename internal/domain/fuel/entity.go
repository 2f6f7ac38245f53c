package fuel

import (
	"time"

	"fleetflow-service/internal/domain/user"
)

// Log records a fuel fill for a vehicle. TotalCost is derived from
// liters × cost-per-liter on every write and is never accepted from a
// client, so the stored value cannot drift. Attribution to a trip is
// computed by time-window overlap at read time, not by foreign key.
type Log struct {
	ID           int64     `json:"id" db:"id"`
	VehicleID    int64     `json:"vehicle_id" db:"vehicle_id"`
	DriverID     *int64    `json:"driver_id,omitempty" db:"driver_id"`
	Liters       float64   `json:"liters" db:"liters"`
	CostPerLiter float64   `json:"cost_per_liter" db:"cost_per_liter"`
	TotalCost    float64   `json:"total_cost" db:"total_cost"`
	Odometer     float64   `json:"odometer" db:"odometer"`
	Date         time.Time `json:"date" db:"date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Info joins a log with its vehicle name/plate and driver for list views.
type Info struct {
	Log
	VehicleName  string    `json:"vehicle_name"`
	LicensePlate string    `json:"license_plate"`
	Driver       *user.Ref `json:"driver,omitempty"`
}
