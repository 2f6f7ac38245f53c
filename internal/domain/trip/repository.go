package trip

import "context"

type Repository interface {
	// Create inserts the trip together with its side effects (a vehicle
	// status write for trips born DISPATCHED) in a single transaction, so a
	// failed effect never leaves an orphaned trip row. effects may be nil.
	Create(ctx context.Context, t *Trip, effects *TransitionEffects) error
	FindByID(ctx context.Context, id int64) (*Trip, error)
	// UpdateFields persists the mutable fields of the trip row (origin,
	// destination, cargo weight, vehicle/driver assignment, trip type,
	// estimated fuel) without touching lifecycle state.
	UpdateFields(ctx context.Context, t *Trip) error
	// ApplyTransition persists the already-transitioned trip together with
	// its side effects in a single transaction.
	ApplyTransition(ctx context.Context, t *Trip, effects *TransitionEffects) error
	Delete(ctx context.Context, id int64) error

	// List returns trips newest-first. When driverID is non-nil the result is
	// restricted to that driver's trips plus unassigned DRAFT trips. A search
	// term matches trip type, origin, destination, status, vehicle name or
	// plate, and driver name, case-insensitively.
	List(ctx context.Context, driverID *int64, search string) ([]Info, error)
	ListAll(ctx context.Context) ([]Trip, error)
}
