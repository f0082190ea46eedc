package survey

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Service provides survey listings and summaries.
type Service struct {
	repo Repository
}

// NewService creates a new survey service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Survey, error) {
	return s.repo.List(ctx)
}

// Summary gathers the survey, its counts and its map concurrently.
func (s *Service) Summary(ctx context.Context, name string) (Summary, error) {
	var (
		sv     Survey
		counts Counts
		fields []MapField
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sv, err = s.repo.Get(gctx, name)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.Counts(gctx, name)
		return err
	})
	g.Go(func() error {
		var err error
		fields, err = s.repo.MapFields(gctx, name)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return newSummary(sv, counts, fields), nil
}
