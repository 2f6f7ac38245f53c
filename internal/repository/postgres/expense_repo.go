package postgres

import (
	"context"
	"fmt"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `e.id, e.trip_id, e.category, e.amount, e.description, e.date, e.created_by_id, e.created_at`

func scanExpense(row interface{ Scan(...interface{}) error }, e *expense.Expense) error {
	return row.Scan(
		&e.ID, &e.TripID, &e.Category, &e.Amount, &e.Description,
		&e.Date, &e.CreatedByID, &e.CreatedAt,
	)
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (trip_id, category, amount, description, date, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.TripID, e.Category, e.Amount, e.Description, e.Date, e.CreatedByID).
		Scan(&e.ID, &e.CreatedAt)
	return translateErr(err)
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var e expense.Expense
	err := scanExpense(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses e WHERE e.id = $1`, id), &e)
	if err != nil {
		return nil, translateErr(err)
	}
	return &e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *expense.Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses
		SET trip_id = $1, category = $2, amount = $3, description = $4, date = $5
		WHERE id = $6
	`, e.TripID, e.Category, e.Amount, e.Description, e.Date, e.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}

func (r *ExpenseRepository) List(ctx context.Context) ([]expense.Info, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+`,
		       t.id, t.origin, t.destination,
		       u.id, u.full_name
		FROM expenses e
		LEFT JOIN trips t ON t.id = e.trip_id
		LEFT JOIN users u ON u.id = e.created_by_id
		ORDER BY e.date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Info
	for rows.Next() {
		var info expense.Info
		var tripID *int64
		var origin, destination *string
		var crtID *int64
		var crtName *string
		if err := rows.Scan(
			&info.ID, &info.TripID, &info.Category, &info.Amount, &info.Description,
			&info.Date, &info.CreatedByID, &info.CreatedAt,
			&tripID, &origin, &destination,
			&crtID, &crtName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if tripID != nil {
			info.Trip = &expense.TripRef{ID: *tripID, Origin: *origin, Destination: *destination}
		}
		if crtID != nil {
			info.CreatedBy = &user.Ref{ID: *crtID, FullName: *crtName}
		}
		expenses = append(expenses, info)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) ListAll(ctx context.Context) ([]expense.Expense, error) {
	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses e ORDER BY e.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		var e expense.Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID int64) ([]expense.Expense, error) {
	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses e WHERE e.trip_id = $1 ORDER BY e.date DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip expenses: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		var e expense.Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
