package maintenance

import (
	"time"

	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"
)

// Log records a shop visit. Creating a log forces its vehicle into IN_SHOP;
// marking it completed releases the vehicle back to AVAILABLE once no other
// open log remains, even if a trip is still in progress on it.
type Log struct {
	ID          int64     `json:"id" db:"id"`
	VehicleID   int64     `json:"vehicle_id" db:"vehicle_id"`
	Issue       string    `json:"issue" db:"issue"`
	Service     string    `json:"service" db:"service"`
	Cost        float64   `json:"cost" db:"cost"`
	Date        time.Time `json:"date" db:"date"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedByID int64     `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Info joins a log with its vehicle and creator for list views.
type Info struct {
	Log
	Vehicle   *vehicle.Vehicle `json:"vehicle,omitempty"`
	CreatedBy *user.Ref        `json:"created_by,omitempty"`
}
