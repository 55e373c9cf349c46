package service

import (
	"context"

	"labtrack/internal/domain"
	"labtrack/internal/events"
	"labtrack/internal/models"
	"labtrack/internal/view"

	"github.com/rs/zerolog"
)

type InventoryService struct {
	repo     domain.InventoryRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewInventoryService(repo domain.InventoryRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *InventoryService {
	return &InventoryService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *InventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.GetAll(ctx)
}

func (s *InventoryService) GetItem(ctx context.Context, id string) (models.InventoryItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Page returns the filtered items together with the building options of the
// selected campus.
func (s *InventoryService) Page(ctx context.Context, filter models.FilterState) (view.InventoryPage, error) {
	if err := filter.Validate(); err != nil {
		return view.InventoryPage{}, err
	}
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return view.InventoryPage{}, err
	}
	return view.BuildInventoryPage(items, filter), nil
}

func (s *InventoryService) CreateItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Warn().Err(err).Str("nombre", item.Nombre).Msg("create item failed")
		return models.InventoryItem{}, err
	}

	s.logger.Info().Str("item_id", created.ID).Str("nombre", created.Nombre).Msg("item created")
	s.publishEvent(ctx, events.EventItemCreated, created)
	return created, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("update item failed")
		return models.InventoryItem{}, err
	}

	s.publishEvent(ctx, events.EventItemUpdated, updated)
	return updated, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("item_id", id).Msg("delete item failed")
		return err
	}

	s.logger.Info().Str("item_id", id).Msg("item deleted")
	s.publishEvent(ctx, events.EventItemDeleted, models.InventoryItem{ID: id})
	return nil
}

func (s *InventoryService) publishEvent(ctx context.Context, eventType string, item models.InventoryItem) {
	if s.eventBus == nil {
		return
	}

	payload := events.ItemEventPayload{
		ItemID:    item.ID,
		Nombre:    item.Nombre,
		Estado:    string(item.Estado),
		Campus:    item.Campus,
		Edificio:  item.Edificio,
		Version:   item.Version,
		ChangedBy: ActorFromContext(ctx),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("item_id", item.ID).Msg("publish event error")
	}
}
