package maintenance

import "context"

type Repository interface {
	// Create inserts the log and pulls its vehicle into IN_SHOP in a single
	// transaction; a log row never exists without the vehicle having been
	// pulled.
	Create(ctx context.Context, l *Log) error
	FindByID(ctx context.Context, id int64) (*Log, error)
	Update(ctx context.Context, l *Log) error
	// Complete marks the log completed and, when no other open log holds the
	// vehicle, releases it back to AVAILABLE, all in one transaction. It
	// reports whether the vehicle was released.
	Complete(ctx context.Context, id int64) (released bool, err error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Info, error)
	ListAll(ctx context.Context) ([]Log, error)
	// HasOpenForVehicle reports whether any uncompleted log exists for the
	// vehicle. Open maintenance takes precedence over trip-driven
	// availability writes.
	HasOpenForVehicle(ctx context.Context, vehicleID int64) (bool, error)
}
