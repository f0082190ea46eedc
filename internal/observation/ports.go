package observation

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=observation

// Repository defines the contract for observation storage.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Observation, int, error)
	Get(ctx context.Context, obsid string) (Detail, error)
	MarkInvalid(ctx context.Context, obsid string) (Observation, error)
	Archive(ctx context.Context, obsid, site string) (Observation, error)
}
