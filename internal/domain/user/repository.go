package user

import "context"

type Repository interface {
	// Users
	CreateDriver(ctx context.Context, u *User, d *DriverProfile) error
	FindByEmail(ctx context.Context, email string) (*DriverInfo, error)
	FindByID(ctx context.Context, id int64) (*DriverInfo, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id int64) error

	// Drivers
	ListDrivers(ctx context.Context, search string) ([]DriverInfo, error)
	UpdateDriverProfile(ctx context.Context, userID int64, req *UpdateDriverRequest) error
	CountDrivers(ctx context.Context) (int64, error)
}

type TokenRepository interface {
	Create(ctx context.Context, t *ResetToken) error
	// FindValid returns the newest unused, unexpired token for the email/otp pair.
	FindValid(ctx context.Context, email, otp string) (*ResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}
