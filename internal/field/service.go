package field

import (
	"context"
)

// Service provides field search and detail.
type Service struct {
	repo Repository
}

// NewService creates a new field service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the fields matching f. The filter must already be valid.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]Field, int, error) {
	return s.repo.List(ctx, f.Query(limit, offset))
}

// Search runs a cone search around a position given in degrees, closest
// fields first.
func (s *Service) Search(ctx context.Context, ra, dec, radius float64, limit, offset int) ([]Field, int, error) {
	f := Filter{RA: &ra, Dec: &dec, Radius: &radius, SortBy: "dist"}
	return s.repo.List(ctx, f.Query(limit, offset))
}

func (s *Service) Get(ctx context.Context, id int64) (Field, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (Field, error) {
	return s.repo.GetByName(ctx, name)
}

// Detail is a field with one page of its beams.
type Detail struct {
	Field
	Beams []Beam `json:"beams"`
}

// Detail returns the field and one page of its beams, ordered by
// observation start time.
func (s *Service) Detail(ctx context.Context, id int64, limit, offset int) (Detail, int, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, 0, err
	}
	beams, total, err := s.repo.ListBeams(ctx, id, limit, offset)
	if err != nil {
		return Detail{}, 0, err
	}
	return Detail{Field: f, Beams: beams}, total, nil
}
