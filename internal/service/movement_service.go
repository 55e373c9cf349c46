package service

import (
	"context"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/events"
	"labtrack/internal/models"
	"labtrack/internal/view"

	"github.com/rs/zerolog"
)

type MovementService struct {
	repo      domain.MovementRepository
	inventory domain.InventoryRepository
	eventBus  domain.EventPublisher
	location  *time.Location
	now       func() time.Time
	logger    *zerolog.Logger
}

func NewMovementService(
	repo domain.MovementRepository,
	inventory domain.InventoryRepository,
	eventBus domain.EventPublisher,
	location *time.Location,
	logger *zerolog.Logger,
) *MovementService {
	if location == nil {
		location = time.Local
	}
	return &MovementService{
		repo:      repo,
		inventory: inventory,
		eventBus:  eventBus,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *MovementService) ListMovements(ctx context.Context, filters domain.MovementFilters) ([]models.Movement, error) {
	if filters.Tipo != "" && !filters.Tipo.Valid() {
		return nil, &models.ValidationError{Field: "tipo", Message: "unknown movement type " + string(filters.Tipo)}
	}
	return s.repo.GetAll(ctx, filters)
}

// RegisterMovement logs the movement and updates the item it refers to.
// Callers re-fetch the inventory to observe the new item state.
func (s *MovementService) RegisterMovement(ctx context.Context, movement models.Movement) (models.Movement, error) {
	registered, err := s.repo.RegisterMovement(ctx, movement)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", movement.ItemID).Str("tipo", string(movement.Tipo)).Msg("register movement failed")
		return models.Movement{}, err
	}

	s.logger.Info().
		Str("movement_id", registered.ID).
		Str("item_id", registered.ItemID).
		Str("tipo", string(registered.Tipo)).
		Msg("movement registered")

	if s.eventBus != nil {
		payload := events.MovementEventPayload{
			MovementID:  registered.ID,
			ItemID:      registered.ItemID,
			Tipo:        string(registered.Tipo),
			Responsable: registered.Responsable,
			ChangedBy:   ActorFromContext(ctx),
		}
		if err := s.eventBus.PublishJSON(events.EventMovementRegistered, payload); err != nil {
			s.logger.Error().Err(err).Str("movement_id", registered.ID).Msg("publish event error")
		}
	}
	return registered, nil
}

// Stats combines the movement log with the current inventory statuses.
func (s *MovementService) Stats(ctx context.Context) (view.MovementStats, error) {
	movements, err := s.repo.GetAll(ctx, domain.MovementFilters{})
	if err != nil {
		return view.MovementStats{}, err
	}
	items, err := s.inventory.GetAll(ctx)
	if err != nil {
		return view.MovementStats{}, err
	}
	return view.ComputeMovementStats(movements, items, s.now(), s.location), nil
}
