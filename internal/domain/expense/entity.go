package expense

import (
	"time"

	"fleetflow-service/internal/domain/user"
)

type Category string

const (
	CategoryFuel        Category = "Fuel"
	CategoryMaintenance Category = "Maintenance"
	CategoryToll        Category = "Toll"
	CategoryParking     Category = "Parking"
	CategoryAllowance   Category = "Driver Allowance"
	CategoryInsurance   Category = "Insurance"
	CategoryOther       Category = "Other"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryFuel, CategoryMaintenance, CategoryToll, CategoryParking,
		CategoryAllowance, CategoryInsurance, CategoryOther:
		return true
	}
	return false
}

// Expense is an ad-hoc cost, optionally linked to a trip. Fuel and
// Maintenance categories overlap logically with fuel/maintenance logs but
// are stored separately; there is no automatic dedup.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	TripID      *int64    `json:"trip_id,omitempty" db:"trip_id"`
	Category    Category  `json:"category" db:"category"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	CreatedByID int64     `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TripRef is the minimal trip projection embedded in expense list rows.
type TripRef struct {
	ID          int64  `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Info joins an expense with its trip and creator for list views.
type Info struct {
	Expense
	Trip      *TripRef  `json:"trip,omitempty"`
	CreatedBy *user.Ref `json:"created_by,omitempty"`
}

// EntrySource distinguishes the variants of the combined expense view.
type EntrySource string

const (
	SourceDirect      EntrySource = "expense"
	SourceFuelDerived EntrySource = "fuel_log"
)

// Entry is the read-only projection shared by direct expenses and
// fuel-derived rows in the combined expense list. Fuel-derived entries get a
// "fuel-<id>" pseudo id and are never written back.
type Entry struct {
	ID          string      `json:"id"`
	Source      EntrySource `json:"source"`
	Category    Category    `json:"category"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Trip        *TripRef    `json:"trip,omitempty"`
	CreatedBy   *user.Ref   `json:"created_by,omitempty"`
}
