package postgres

import (
	"context"
	"fmt"

	"fleetflow-service/internal/domain/dispatcher"
	"fleetflow-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DispatcherRepository struct {
	db *pgxpool.Pool
}

func NewDispatcherRepository(db *pgxpool.Pool) *DispatcherRepository {
	return &DispatcherRepository{db: db}
}

func (r *DispatcherRepository) Create(ctx context.Context, d *dispatcher.Dispatcher) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO dispatchers (name, email, phone, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, d.Name, d.Email, d.Phone, d.ManagerID).Scan(&d.ID, &d.CreatedAt)
	return translateErr(err)
}

func (r *DispatcherRepository) FindByID(ctx context.Context, id int64) (*dispatcher.Dispatcher, error) {
	var d dispatcher.Dispatcher
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, manager_id, created_at
		FROM dispatchers WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.ManagerID, &d.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &d, nil
}

func (r *DispatcherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM dispatchers WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check dispatcher email: %w", err)
	}
	return exists, nil
}

func (r *DispatcherRepository) Update(ctx context.Context, d *dispatcher.Dispatcher) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE dispatchers SET name = $1, email = $2, phone = $3 WHERE id = $4
	`, d.Name, d.Email, d.Phone, d.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *DispatcherRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dispatchers WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *DispatcherRepository) List(ctx context.Context, managerID *int64, search string) ([]dispatcher.Info, error) {
	query := `
		SELECT d.id, d.name, d.email, d.phone, d.manager_id, d.created_at,
		       u.id, u.full_name
		FROM dispatchers d
		LEFT JOIN users u ON u.id = d.manager_id
		WHERE 1=1
	`
	args := []interface{}{}
	if managerID != nil {
		args = append(args, *managerID)
		query += fmt.Sprintf(` AND d.manager_id = $%d`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (d.name ILIKE $%d OR d.email ILIKE $%d OR d.phone ILIKE $%d)`, n, n, n)
	}
	query += ` ORDER BY d.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatchers: %w", err)
	}
	defer rows.Close()

	var dispatchers []dispatcher.Info
	for rows.Next() {
		var info dispatcher.Info
		var mgrID *int64
		var mgrName *string
		if err := rows.Scan(
			&info.ID, &info.Name, &info.Email, &info.Phone, &info.ManagerID, &info.CreatedAt,
			&mgrID, &mgrName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dispatcher: %w", err)
		}
		if mgrID != nil {
			info.Manager = &user.Ref{ID: *mgrID, FullName: *mgrName}
		}
		dispatchers = append(dispatchers, info)
	}
	return dispatchers, rows.Err()
}
