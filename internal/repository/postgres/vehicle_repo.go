package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/vehicle"
	xerrors "fleetflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, name, model, license_plate, type, max_load_capacity, odometer, status, tags, created_at, updated_at`

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO vehicles (name, model, license_plate, type, max_load_capacity, odometer, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, v.Name, v.Model, v.LicensePlate, v.Type, v.MaxLoadCapacity, v.Odometer, v.Status, v.Tags).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return translateErr(err)
}

func (r *VehicleRepository) FindByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id).Scan(
		&v.ID, &v.Name, &v.Model, &v.LicensePlate, &v.Type, &v.MaxLoadCapacity,
		&v.Odometer, &v.Status, &v.Tags, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &v, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE vehicles
		SET name = $1, model = $2, license_plate = $3, type = $4,
		    max_load_capacity = $5, odometer = $6, tags = $7, updated_at = $8
		WHERE id = $9
	`, v.Name, v.Model, v.LicensePlate, v.Type, v.MaxLoadCapacity, v.Odometer, v.Tags, time.Now(), v.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

// Delete refuses to remove a vehicle that still has trips referencing it.
func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	var trips int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE vehicle_id = $1`, id).Scan(&trips); err != nil {
		return fmt.Errorf("failed to count dependent trips: %w", err)
	}
	if trips > 0 {
		return xerrors.Wrap(xerrors.ErrConflict, "vehicle has dependent trips")
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *VehicleRepository) List(ctx context.Context, search string) ([]vehicle.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR model ILIKE $1 OR license_plate ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []vehicle.Vehicle
	for rows.Next() {
		var v vehicle.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Model, &v.LicensePlate, &v.Type, &v.MaxLoadCapacity,
			&v.Odometer, &v.Status, &v.Tags, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) UpdateStatus(ctx context.Context, id int64, status vehicle.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}
