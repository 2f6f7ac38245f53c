package expense

import "context"

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Info, error)
	ListAll(ctx context.Context) ([]Expense, error)
	ListByTrip(ctx context.Context, tripID int64) ([]Expense, error)
}
