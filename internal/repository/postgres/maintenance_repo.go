package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MaintenanceRepository struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepository(db *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `m.id, m.vehicle_id, m.issue, m.service, m.cost, m.date, m.completed, m.created_by_id, m.created_at`

func scanMaintenanceLog(row interface{ Scan(...interface{}) error }, l *maintenance.Log) error {
	return row.Scan(
		&l.ID, &l.VehicleID, &l.Issue, &l.Service, &l.Cost,
		&l.Date, &l.Completed, &l.CreatedByID, &l.CreatedAt,
	)
}

// Create inserts the log and pulls the vehicle into IN_SHOP in one
// transaction.
func (r *MaintenanceRepository) Create(ctx context.Context, l *maintenance.Log) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO maintenance_logs (vehicle_id, issue, service, cost, date, completed, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, l.VehicleID, l.Issue, l.Service, l.Cost, l.Date, l.Completed, l.CreatedByID).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return translateErr(err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
		vehicle.StatusInShop, time.Now(), l.VehicleID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit maintenance create: %w", err)
	}
	return nil
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id int64) (*maintenance.Log, error) {
	var l maintenance.Log
	err := scanMaintenanceLog(r.db.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_logs m WHERE m.id = $1`, id), &l)
	if err != nil {
		return nil, translateErr(err)
	}
	return &l, nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, l *maintenance.Log) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE maintenance_logs
		SET vehicle_id = $1, issue = $2, service = $3, cost = $4, date = $5, completed = $6
		WHERE id = $7
	`, l.VehicleID, l.Issue, l.Service, l.Cost, l.Date, l.Completed, l.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

// Complete closes the log and releases the vehicle to AVAILABLE when no
// other open log remains, in one transaction.
func (r *MaintenanceRepository) Complete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var vehicleID int64
	err = tx.QueryRow(ctx,
		`UPDATE maintenance_logs SET completed = TRUE WHERE id = $1 RETURNING vehicle_id`,
		id).Scan(&vehicleID)
	if err != nil {
		return false, translateErr(err)
	}

	var open bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM maintenance_logs WHERE vehicle_id = $1 AND completed = FALSE)`,
		vehicleID).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("failed to check open maintenance: %w", err)
	}

	released := false
	if !open {
		tag, err := tx.Exec(ctx,
			`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
			vehicle.StatusAvailable, time.Now(), vehicleID)
		if err != nil {
			return false, translateErr(err)
		}
		if tag.RowsAffected() == 0 {
			return false, translateErr(errNoRows)
		}
		released = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit maintenance complete: %w", err)
	}
	return released, nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM maintenance_logs WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *MaintenanceRepository) List(ctx context.Context) ([]maintenance.Info, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+maintenanceColumns+`,
		       v.id, v.name, v.model, v.license_plate, v.type, v.max_load_capacity,
		       v.odometer, v.status, v.tags, v.created_at, v.updated_at,
		       u.id, u.full_name
		FROM maintenance_logs m
		LEFT JOIN vehicles v ON v.id = m.vehicle_id
		LEFT JOIN users u ON u.id = m.created_by_id
		ORDER BY m.date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs: %w", err)
	}
	defer rows.Close()

	var logs []maintenance.Info
	for rows.Next() {
		var info maintenance.Info
		var v nullableVehicle
		var crtID *int64
		var crtName *string
		if err := rows.Scan(
			&info.ID, &info.VehicleID, &info.Issue, &info.Service, &info.Cost,
			&info.Date, &info.Completed, &info.CreatedByID, &info.CreatedAt,
			&v.ID, &v.Name, &v.Model, &v.LicensePlate, &v.Type, &v.MaxLoadCapacity,
			&v.Odometer, &v.Status, &v.Tags, &v.CreatedAt, &v.UpdatedAt,
			&crtID, &crtName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance log: %w", err)
		}
		info.Vehicle = v.toVehicle()
		if crtID != nil {
			info.CreatedBy = &user.Ref{ID: *crtID, FullName: *crtName}
		}
		logs = append(logs, info)
	}
	return logs, rows.Err()
}

func (r *MaintenanceRepository) ListAll(ctx context.Context) ([]maintenance.Log, error) {
	rows, err := r.db.Query(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_logs m ORDER BY m.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs: %w", err)
	}
	defer rows.Close()

	var logs []maintenance.Log
	for rows.Next() {
		var l maintenance.Log
		if err := scanMaintenanceLog(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *MaintenanceRepository) HasOpenForVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	var open bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM maintenance_logs WHERE vehicle_id = $1 AND completed = FALSE)`,
		vehicleID).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("failed to check open maintenance: %w", err)
	}
	return open, nil
}
