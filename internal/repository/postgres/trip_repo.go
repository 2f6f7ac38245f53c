package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type TripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `t.id, t.reference, t.trip_type, t.origin, t.destination, t.cargo_weight,
	t.estimated_fuel, t.vehicle_id, t.driver_id, t.created_by_id, t.status,
	t.started_at, t.completed_at, t.created_at`

func scanTrip(row interface{ Scan(...interface{}) error }, t *trip.Trip) error {
	return row.Scan(
		&t.ID, &t.Reference, &t.TripType, &t.Origin, &t.Destination, &t.CargoWeight,
		&t.EstimatedFuel, &t.VehicleID, &t.DriverID, &t.CreatedByID, &t.Status,
		&t.StartedAt, &t.CompletedAt, &t.CreatedAt,
	)
}

// Create inserts the trip and applies its side effects in one transaction.
// A trip born DISPATCHED and its vehicle's IN_USE write either both land or
// neither does.
func (r *TripRepository) Create(ctx context.Context, t *trip.Trip, effects *trip.TransitionEffects) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO trips (reference, trip_type, origin, destination, cargo_weight,
		                   estimated_fuel, vehicle_id, driver_id, created_by_id, status,
		                   started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, t.Reference, t.TripType, t.Origin, t.Destination, t.CargoWeight,
		t.EstimatedFuel, t.VehicleID, t.DriverID, t.CreatedByID, t.Status,
		t.StartedAt, t.CompletedAt).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return translateErr(err)
	}

	if err := applyTripEffects(ctx, tx, effects); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trip create: %w", err)
	}
	return nil
}

func (r *TripRepository) FindByID(ctx context.Context, id int64) (*trip.Trip, error) {
	var t trip.Trip
	err := scanTrip(r.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips t WHERE t.id = $1`, id), &t)
	if err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

func (r *TripRepository) UpdateFields(ctx context.Context, t *trip.Trip) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE trips
		SET trip_type = $1, origin = $2, destination = $3, cargo_weight = $4,
		    estimated_fuel = $5, vehicle_id = $6, driver_id = $7
		WHERE id = $8
	`, t.TripType, t.Origin, t.Destination, t.CargoWeight,
		t.EstimatedFuel, t.VehicleID, t.DriverID, t.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

// ApplyTransition writes the transitioned trip row and its side effects
// (vehicle status, driver trip counter) in one transaction, so a failure
// never leaves a vehicle's status inconsistent with its trip's status.
func (r *TripRepository) ApplyTransition(ctx context.Context, t *trip.Trip, effects *trip.TransitionEffects) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = $1, driver_id = $2, started_at = $3, completed_at = $4
		WHERE id = $5
	`, t.Status, t.DriverID, t.StartedAt, t.CompletedAt, t.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}

	if err := applyTripEffects(ctx, tx, effects); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trip transition: %w", err)
	}
	return nil
}

// applyTripEffects runs the vehicle-status and driver-counter writes that
// accompany a trip mutation inside the caller's transaction.
func applyTripEffects(ctx context.Context, tx pgx.Tx, effects *trip.TransitionEffects) error {
	if effects == nil {
		return nil
	}
	if effects.VehicleID != nil && effects.VehicleStatus != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
			*effects.VehicleStatus, time.Now(), *effects.VehicleID)
		if err != nil {
			return translateErr(err)
		}
		if tag.RowsAffected() == 0 {
			return translateErr(errNoRows)
		}
	}
	if effects.CompletedDriverID != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE drivers SET total_trips = total_trips + 1 WHERE user_id = $1`,
			*effects.CompletedDriverID)
		if err != nil {
			return translateErr(err)
		}
		if tag.RowsAffected() == 0 {
			return translateErr(errNoRows)
		}
	}
	return nil
}

func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *TripRepository) List(ctx context.Context, driverID *int64, search string) ([]trip.Info, error) {
	query := `
		SELECT ` + tripColumns + `,
		       v.id, v.name, v.model, v.license_plate, v.type, v.max_load_capacity,
		       v.odometer, v.status, v.tags, v.created_at, v.updated_at,
		       d.id, d.full_name,
		       c.id, c.full_name
		FROM trips t
		LEFT JOIN vehicles v ON v.id = t.vehicle_id
		LEFT JOIN users d ON d.id = t.driver_id
		LEFT JOIN users c ON c.id = t.created_by_id
		WHERE 1=1
	`
	args := []interface{}{}
	if driverID != nil {
		args = append(args, *driverID)
		query += fmt.Sprintf(` AND (t.driver_id = $%d OR (t.status = 'DRAFT' AND t.driver_id IS NULL))`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (t.trip_type ILIKE $%d OR t.origin ILIKE $%d OR t.destination ILIKE $%d
			OR t.status ILIKE $%d OR COALESCE(v.name, '') ILIKE $%d
			OR COALESCE(v.license_plate, '') ILIKE $%d OR COALESCE(d.full_name, '') ILIKE $%d)`,
			n, n, n, n, n, n, n)
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Info
	for rows.Next() {
		var info trip.Info
		var v nullableVehicle
		var drvID, crtID *int64
		var drvName, crtName *string
		if err := rows.Scan(
			&info.ID, &info.Reference, &info.TripType, &info.Origin, &info.Destination, &info.CargoWeight,
			&info.EstimatedFuel, &info.VehicleID, &info.DriverID, &info.CreatedByID, &info.Status,
			&info.StartedAt, &info.CompletedAt, &info.CreatedAt,
			&v.ID, &v.Name, &v.Model, &v.LicensePlate, &v.Type, &v.MaxLoadCapacity,
			&v.Odometer, &v.Status, &v.Tags, &v.CreatedAt, &v.UpdatedAt,
			&drvID, &drvName,
			&crtID, &crtName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		info.Vehicle = v.toVehicle()
		if drvID != nil {
			info.Driver = &user.Ref{ID: *drvID, FullName: *drvName}
		}
		if crtID != nil {
			info.CreatedBy = &user.Ref{ID: *crtID, FullName: *crtName}
		}
		trips = append(trips, info)
	}
	return trips, rows.Err()
}

func (r *TripRepository) ListAll(ctx context.Context) ([]trip.Trip, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+` FROM trips t ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		var t trip.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// nullableVehicle scans the LEFT JOIN columns of the vehicles table.
type nullableVehicle struct {
	ID              *int64
	Name            *string
	Model           *string
	LicensePlate    *string
	Type            *string
	MaxLoadCapacity *float64
	Odometer        *float64
	Status          *vehicle.Status
	Tags            pq.StringArray
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

func (n *nullableVehicle) toVehicle() *vehicle.Vehicle {
	if n.ID == nil {
		return nil
	}
	return &vehicle.Vehicle{
		ID:              *n.ID,
		Name:            *n.Name,
		Model:           *n.Model,
		LicensePlate:    *n.LicensePlate,
		Type:            *n.Type,
		MaxLoadCapacity: *n.MaxLoadCapacity,
		Odometer:        *n.Odometer,
		Status:          *n.Status,
		Tags:            n.Tags,
		CreatedAt:       *n.CreatedAt,
		UpdatedAt:       *n.UpdatedAt,
	}
}
