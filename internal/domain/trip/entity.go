package trip

import (
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"
)

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusDispatched Status = "DISPATCHED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsTerminal reports whether no further status transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Trip is a single dispatch assignment moving cargo from an origin to a
// destination. DriverID may be nil only while the trip is in DRAFT.
type Trip struct {
	ID            int64      `json:"id" db:"id"`
	Reference     string     `json:"reference" db:"reference"`
	TripType      string     `json:"trip_type" db:"trip_type"`
	Origin        string     `json:"origin" db:"origin"`
	Destination   string     `json:"destination" db:"destination"`
	CargoWeight   float64    `json:"cargo_weight" db:"cargo_weight"` // kg
	EstimatedFuel *float64   `json:"estimated_fuel,omitempty" db:"estimated_fuel"`
	VehicleID     *int64     `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DriverID      *int64     `json:"driver_id,omitempty" db:"driver_id"`
	CreatedByID   int64      `json:"created_by_id" db:"created_by_id"`
	Status        Status     `json:"status" db:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Info is the list/detail projection: the trip joined with its vehicle,
// driver and creator, plus the derived total expense. TotalExpense is never
// persisted; it is recomputed on every read.
type Info struct {
	Trip
	Vehicle      *vehicle.Vehicle  `json:"vehicle,omitempty"`
	Driver       *user.Ref         `json:"driver,omitempty"`
	CreatedBy    *user.Ref         `json:"created_by,omitempty"`
	Expenses     []expense.Expense `json:"expenses,omitempty"`
	TotalExpense float64           `json:"total_expense"`
}

// Actor identifies who is performing a trip operation.
type Actor struct {
	ID   int64
	Role string
}
