package postgres

import (
	"context"
	"fmt"

	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FuelRepository struct {
	db *pgxpool.Pool
}

func NewFuelRepository(db *pgxpool.Pool) *FuelRepository {
	return &FuelRepository{db: db}
}

const fuelColumns = `f.id, f.vehicle_id, f.driver_id, f.liters, f.cost_per_liter, f.total_cost, f.odometer, f.date, f.created_at`

func scanFuelLog(row interface{ Scan(...interface{}) error }, l *fuel.Log) error {
	return row.Scan(
		&l.ID, &l.VehicleID, &l.DriverID, &l.Liters, &l.CostPerLiter,
		&l.TotalCost, &l.Odometer, &l.Date, &l.CreatedAt,
	)
}

func (r *FuelRepository) Create(ctx context.Context, l *fuel.Log) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO fuel_logs (vehicle_id, driver_id, liters, cost_per_liter, total_cost, odometer, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, l.VehicleID, l.DriverID, l.Liters, l.CostPerLiter, l.TotalCost, l.Odometer, l.Date).
		Scan(&l.ID, &l.CreatedAt)
	return translateErr(err)
}

func (r *FuelRepository) FindByID(ctx context.Context, id int64) (*fuel.Log, error) {
	var l fuel.Log
	err := scanFuelLog(r.db.QueryRow(ctx, `SELECT `+fuelColumns+` FROM fuel_logs f WHERE f.id = $1`, id), &l)
	if err != nil {
		return nil, translateErr(err)
	}
	return &l, nil
}

func (r *FuelRepository) Update(ctx context.Context, l *fuel.Log) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE fuel_logs
		SET vehicle_id = $1, driver_id = $2, liters = $3, cost_per_liter = $4,
		    total_cost = $5, odometer = $6, date = $7
		WHERE id = $8
	`, l.VehicleID, l.DriverID, l.Liters, l.CostPerLiter, l.TotalCost, l.Odometer, l.Date, l.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *FuelRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fuel_logs WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *FuelRepository) List(ctx context.Context) ([]fuel.Info, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fuelColumns+`,
		       v.name, v.license_plate,
		       u.id, u.full_name
		FROM fuel_logs f
		JOIN vehicles v ON v.id = f.vehicle_id
		LEFT JOIN users u ON u.id = f.driver_id
		ORDER BY f.date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel logs: %w", err)
	}
	defer rows.Close()

	var logs []fuel.Info
	for rows.Next() {
		var info fuel.Info
		var drvID *int64
		var drvName *string
		if err := rows.Scan(
			&info.ID, &info.VehicleID, &info.DriverID, &info.Liters, &info.CostPerLiter,
			&info.TotalCost, &info.Odometer, &info.Date, &info.CreatedAt,
			&info.VehicleName, &info.LicensePlate,
			&drvID, &drvName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fuel log: %w", err)
		}
		if drvID != nil {
			info.Driver = &user.Ref{ID: *drvID, FullName: *drvName}
		}
		logs = append(logs, info)
	}
	return logs, rows.Err()
}

func (r *FuelRepository) ListAll(ctx context.Context) ([]fuel.Log, error) {
	rows, err := r.db.Query(ctx, `SELECT `+fuelColumns+` FROM fuel_logs f ORDER BY f.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel logs: %w", err)
	}
	defer rows.Close()

	var logs []fuel.Log
	for rows.Next() {
		var l fuel.Log
		if err := scanFuelLog(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan fuel log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
