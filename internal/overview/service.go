package overview

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"obsdb/internal/validation"
)

// Service provides the front-page counters and target resolution.
type Service struct {
	repo Repository
}

// NewService creates a new overview service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overview runs every counter concurrently.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		out Overview
		mu  sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range Metrics {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, m)
			if err != nil {
				return err
			}
			mu.Lock()
			out.set(m, n)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// Resolve finds a field with exactly this name, or failing that an
// observation with this id.
func (s *Service) Resolve(ctx context.Context, name string) (Target, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Target{}, ErrNotFound
	}

	id, err := s.repo.FieldIDByName(ctx, name)
	if err == nil {
		return Target{Kind: KindField, ID: strconv.FormatInt(id, 10)}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Target{}, err
	}

	if !validation.IsObsID(name) {
		return Target{}, ErrNotFound
	}
	ok, err := s.repo.ObservationExists(ctx, name)
	if err != nil {
		return Target{}, err
	}
	if !ok {
		return Target{}, ErrNotFound
	}
	return Target{Kind: KindObservation, ID: name}, nil
}
