package overview

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=overview

// Repository defines the contract for overview queries.
type Repository interface {
	Count(ctx context.Context, m Metric) (int, error)
	FieldIDByName(ctx context.Context, name string) (int64, error)
	ObservationExists(ctx context.Context, obsid string) (bool, error)
}
