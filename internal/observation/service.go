package observation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"obsdb/internal/validation"
)

// Service provides observation listing and the admin status operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new observation service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Observation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, obsid string) (Detail, error) {
	if !validation.IsObsID(obsid) {
		return Detail{}, ErrInvalidObsID
	}
	return s.repo.Get(ctx, obsid)
}

// MarkInvalid excludes the observation from field status.
func (s *Service) MarkInvalid(ctx context.Context, actor, obsid string) (Observation, error) {
	if !validation.IsObsID(obsid) {
		return Observation{}, ErrInvalidObsID
	}
	o, err := s.repo.MarkInvalid(ctx, obsid)
	if err != nil {
		return Observation{}, err
	}
	s.logger.Info("observation marked invalid",
		zap.String("obsid", obsid),
		zap.String("actor", actor),
	)
	return o, nil
}

// Archive records the observation's subbands as held at site.
func (s *Service) Archive(ctx context.Context, actor, obsid, site string) (Observation, error) {
	if !validation.IsObsID(obsid) {
		return Observation{}, ErrInvalidObsID
	}
	site = strings.TrimSpace(site)
	if site == "" {
		return Observation{}, ErrEmptySite
	}
	o, err := s.repo.Archive(ctx, obsid, site)
	if err != nil {
		return Observation{}, err
	}
	s.logger.Info("observation archived",
		zap.String("obsid", obsid),
		zap.String("site", site),
		zap.String("actor", actor),
		zap.String("archived", string(o.Flags.Archived)),
	)
	return o, nil
}
