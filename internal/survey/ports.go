package survey

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=survey

// Repository defines the contract for survey storage.
type Repository interface {
	List(ctx context.Context) ([]Survey, error)
	Get(ctx context.Context, name string) (Survey, error)
	Counts(ctx context.Context, name string) (Counts, error)
	MapFields(ctx context.Context, name string) ([]MapField, error)
}
