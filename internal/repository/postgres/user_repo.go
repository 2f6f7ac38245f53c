package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.full_name, u.email, u.phone, u.password_hash, u.role, u.created_at`

// driverProfileRow scans the nullable LEFT JOIN columns of the drivers table.
type driverProfileRow struct {
	UserID        *int64
	LicenseNumber *string
	LicenseExpiry *time.Time
	SafetyScore   *float64
	Status        *string
	TotalTrips    *int64
}

func (d *driverProfileRow) toProfile() *user.DriverProfile {
	if d.UserID == nil {
		return nil
	}
	return &user.DriverProfile{
		UserID:        *d.UserID,
		LicenseNumber: *d.LicenseNumber,
		LicenseExpiry: *d.LicenseExpiry,
		SafetyScore:   *d.SafetyScore,
		Status:        *d.Status,
		TotalTrips:    *d.TotalTrips,
	}
}

// CreateDriver inserts the user row and its driver profile in one transaction.
func (r *UserRepository) CreateDriver(ctx context.Context, u *user.User, d *user.DriverProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (full_name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.FullName, u.Email, u.Phone, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translateErr(err)
	}

	d.UserID = u.ID
	_, err = tx.Exec(ctx, `
		INSERT INTO drivers (user_id, license_number, license_expiry, safety_score, status, total_trips)
		VALUES ($1, $2, $3, $4, $5, 0)
	`, d.UserID, d.LicenseNumber, d.LicenseExpiry, d.SafetyScore, d.Status)
	if err != nil {
		return translateErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit driver creation: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.DriverInfo, error) {
	return r.findOne(ctx, `WHERE u.email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.DriverInfo, error) {
	return r.findOne(ctx, `WHERE u.id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*user.DriverInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		       d.user_id, d.license_number, d.license_expiry, d.safety_score, d.status, d.total_trips
		FROM users u
		LEFT JOIN drivers d ON d.user_id = u.id
		%s
	`, userColumns, where)

	var info user.DriverInfo
	var dp driverProfileRow
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&info.ID, &info.FullName, &info.Email, &info.Phone, &info.PasswordHash, &info.Role, &info.CreatedAt,
		&dp.UserID, &dp.LicenseNumber, &dp.LicenseExpiry, &dp.SafetyScore, &dp.Status, &dp.TotalTrips,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	info.Driver = dp.toProfile()
	return &info, nil
}

func (r *UserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

// ListDrivers returns all DRIVER users with their profiles, newest-first.
func (r *UserRepository) ListDrivers(ctx context.Context, search string) ([]user.DriverInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		       d.user_id, d.license_number, d.license_expiry, d.safety_score, d.status, d.total_trips
		FROM users u
		LEFT JOIN drivers d ON d.user_id = u.id
		WHERE u.role = 'DRIVER'
	`, userColumns)

	args := []interface{}{}
	if search != "" {
		query += `
		  AND (u.full_name ILIKE $1 OR u.email ILIKE $1 OR COALESCE(u.phone, '') ILIKE $1
		       OR COALESCE(d.license_number, '') ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY u.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []user.DriverInfo
	for rows.Next() {
		var info user.DriverInfo
		var dp driverProfileRow
		if err := rows.Scan(
			&info.ID, &info.FullName, &info.Email, &info.Phone, &info.PasswordHash, &info.Role, &info.CreatedAt,
			&dp.UserID, &dp.LicenseNumber, &dp.LicenseExpiry, &dp.SafetyScore, &dp.Status, &dp.TotalTrips,
		); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		info.Driver = dp.toProfile()
		drivers = append(drivers, info)
	}
	return drivers, rows.Err()
}

func (r *UserRepository) UpdateDriverProfile(ctx context.Context, userID int64, req *user.UpdateDriverRequest) error {
	query := `
		UPDATE drivers SET
			license_number = COALESCE($1, license_number),
			license_expiry = COALESCE($2::date, license_expiry),
			safety_score   = COALESCE($3, safety_score),
			status         = COALESCE($4, status)
		WHERE user_id = $5
	`
	tag, err := r.db.Exec(ctx, query, req.LicenseNumber, req.LicenseExpiry, req.SafetyScore, req.Status, userID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *UserRepository) CountDrivers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'DRIVER'`).Scan(&n)
	return n, err
}
