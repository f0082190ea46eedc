package field

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=field

// Repository defines the contract for field storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Field, int, error)
	Get(ctx context.Context, id int64) (Field, error)
	GetByName(ctx context.Context, name string) (Field, error)
	ListBeams(ctx context.Context, fieldID int64, limit, offset int) ([]Beam, int, error)
}
