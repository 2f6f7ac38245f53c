package fuel

import "context"

type Repository interface {
	Create(ctx context.Context, l *Log) error
	FindByID(ctx context.Context, id int64) (*Log, error)
	Update(ctx context.Context, l *Log) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Info, error)
	ListAll(ctx context.Context) ([]Log, error)
}
