package service

import (
	"context"
	"fmt"

	"labtrack/internal/config"
	"labtrack/internal/domain"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
)

// ErrRateLimited is returned when a session changes its filters too often.
var ErrRateLimited = fmt.Errorf("%w: too many view-state updates", models.ErrConflict)

// ViewStateService persists the inventory filter selection of each console session.
type ViewStateService struct {
	repo    domain.ViewStateRepository
	cfg     config.SessionsConfig
	catalog models.LocationCatalog
	logger  *zerolog.Logger
}

// NewViewStateService builds the service. A nil catalog accepts any campus/building pair.
func NewViewStateService(
	repo domain.ViewStateRepository,
	cfg config.SessionsConfig,
	catalog models.LocationCatalog,
	logger *zerolog.Logger,
) *ViewStateService {
	return &ViewStateService{
		repo:    repo,
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
	}
}

// GetFilter returns the stored filter, or an empty one for a new session.
func (s *ViewStateService) GetFilter(ctx context.Context, sessionID string) (models.FilterState, error) {
	filter, err := s.repo.GetFilter(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get view filter")
		return models.FilterState{}, err
	}
	if filter == nil {
		return models.FilterState{}, nil
	}
	return *filter, nil
}

// SetFilter stores filter. When the campus changes but the building does
// not, the building is cleared.
func (s *ViewStateService) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) (models.FilterState, error) {
	if err := filter.Validate(); err != nil {
		return models.FilterState{}, err
	}
	if err := s.checkRate(ctx, sessionID); err != nil {
		return models.FilterState{}, err
	}

	current, err := s.GetFilter(ctx, sessionID)
	if err != nil {
		return models.FilterState{}, err
	}
	if !sameString(current.Campus, filter.Campus) && sameString(current.Edificio, filter.Edificio) {
		filter = filter.SelectCampus(filter.Campus)
	}
	if err := s.checkLocation(filter); err != nil {
		return models.FilterState{}, err
	}

	if err := s.repo.SetFilter(ctx, sessionID, filter); err != nil {
		return models.FilterState{}, err
	}
	return filter, nil
}

// SelectCampus applies a campus selection, clearing the building.
func (s *ViewStateService) SelectCampus(ctx context.Context, sessionID string, campus *string) (models.FilterState, error) {
	return s.update(ctx, sessionID, func(f models.FilterState) models.FilterState {
		return f.SelectCampus(campus)
	})
}

func (s *ViewStateService) SelectBuilding(ctx context.Context, sessionID string, building *string) (models.FilterState, error) {
	return s.update(ctx, sessionID, func(f models.FilterState) models.FilterState {
		return f.SelectBuilding(building)
	})
}

func (s *ViewStateService) ClearFilter(ctx context.Context, sessionID string) error {
	return s.repo.ClearFilter(ctx, sessionID)
}

func (s *ViewStateService) update(ctx context.Context, sessionID string, fn func(models.FilterState) models.FilterState) (models.FilterState, error) {
	if err := s.checkRate(ctx, sessionID); err != nil {
		return models.FilterState{}, err
	}
	current, err := s.GetFilter(ctx, sessionID)
	if err != nil {
		return models.FilterState{}, err
	}
	next := fn(current)
	if err := s.checkLocation(next); err != nil {
		return models.FilterState{}, err
	}
	if err := s.repo.SetFilter(ctx, sessionID, next); err != nil {
		return models.FilterState{}, err
	}
	return next, nil
}

func (s *ViewStateService) checkRate(ctx context.Context, sessionID string) error {
	if s.cfg.RateLimitRequests <= 0 {
		return nil
	}
	allowed, err := s.repo.CheckRateLimit(ctx, sessionID, s.cfg.RateLimitRequests, s.cfg.RateLimitWindow)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Warn().Str("session_id", sessionID).Msg("view-state rate limit exceeded")
		return ErrRateLimited
	}
	return nil
}

// checkLocation rejects a building that does not belong to the selected campus.
func (s *ViewStateService) checkLocation(filter models.FilterState) error {
	if filter.Campus == nil || filter.Edificio == nil {
		return nil
	}
	return s.catalog.CheckContainment("", *filter.Campus, *filter.Edificio)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
