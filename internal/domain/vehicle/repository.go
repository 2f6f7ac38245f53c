package vehicle

import "context"

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	FindByID(ctx context.Context, id int64) (*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	// Delete fails with ErrConflict while dependent trips reference the vehicle.
	Delete(ctx context.Context, id int64) error
	// List matches name, model and license plate case-insensitively when
	// search is non-empty.
	List(ctx context.Context, search string) ([]Vehicle, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
