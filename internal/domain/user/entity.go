package user

import "time"

// Roles known to the back office. Route-level authorization and the trip
// lifecycle both key off these values.
const (
	RoleFleetManager     = "FLEET_MANAGER"
	RoleDispatcher       = "DISPATCHER"
	RoleDriver           = "DRIVER"
	RoleSafetyOfficer    = "SAFETY_OFFICER"
	RoleFinancialAnalyst = "FINANCIAL_ANALYST"
)

// Driver duty statuses, set by managers and safety officers.
const (
	DriverOnDuty    = "On Duty"
	DriverOnBreak   = "On Break"
	DriverSuspended = "Suspended"
)

// User is an account that can sign in. Drivers additionally carry a
// DriverProfile.
type User struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DriverProfile holds the driver-specific record attached to a DRIVER user.
// TotalTrips is only ever incremented by a trip reaching COMPLETED.
type DriverProfile struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	LicenseNumber string    `json:"license_number" db:"license_number"`
	LicenseExpiry time.Time `json:"license_expiry" db:"license_expiry"`
	SafetyScore   float64   `json:"safety_score" db:"safety_score"`
	Status        string    `json:"status" db:"status"`
	TotalTrips    int64     `json:"total_trips" db:"total_trips"`
}

// DriverInfo is the list/detail projection for driver endpoints.
type DriverInfo struct {
	User
	Driver *DriverProfile `json:"driver,omitempty"`
}

// Ref is the minimal user projection embedded in other resources.
type Ref struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// ResetToken is a one-time password issued by the forgot-password flow.
// The stored row is the source of truth; email delivery is best-effort.
type ResetToken struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	OTP       string    `json:"-" db:"otp"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsStaff reports whether the role may manage trips (create, dispatch, edit).
func IsStaff(role string) bool {
	return role == RoleFleetManager || role == RoleDispatcher
}
