package vehicle

import (
	"time"

	"github.com/lib/pq"
)

type Status string

// A vehicle's operational status is never set directly by registry CRUD; it
// is a side effect of trip and maintenance transitions.
const (
	StatusAvailable Status = "AVAILABLE"
	StatusInUse     Status = "IN_USE"
	StatusInShop    Status = "IN_SHOP"
)

// Vehicle is a fleet asset.
type Vehicle struct {
	ID              int64          `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Model           string         `json:"model" db:"model"`
	LicensePlate    string         `json:"license_plate" db:"license_plate"`
	Type            string         `json:"type" db:"type"`
	MaxLoadCapacity float64        `json:"max_load_capacity" db:"max_load_capacity"` // kg
	Odometer        float64        `json:"odometer" db:"odometer"`                   // km
	Status          Status         `json:"status" db:"status"`
	Tags            pq.StringArray `json:"tags,omitempty" db:"tags"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}
