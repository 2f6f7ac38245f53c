package dispatcher

import "context"

type Repository interface {
	Create(ctx context.Context, d *Dispatcher) error
	FindByID(ctx context.Context, id int64) (*Dispatcher, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, d *Dispatcher) error
	Delete(ctx context.Context, id int64) error
	// List returns dispatchers newest-first, restricted to managerID when
	// non-nil; search matches name, email and phone case-insensitively.
	List(ctx context.Context, managerID *int64, search string) ([]Info, error)
}
