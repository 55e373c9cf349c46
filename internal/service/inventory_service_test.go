package service

import (
	"context"
	"io"
	"testing"

	"labtrack/internal/events"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInventoryService(t *testing.T) {
	repo := new(mockInventoryRepo)
	bus := new(mockEventBus)
	logger := zerolog.New(io.Discard)
	svc := NewInventoryService(repo, bus, &logger)
	ctx := WithActor(context.Background(), "console")

	t.Run("CreateItem", func(t *testing.T) {
		input := models.InventoryItem{Nombre: "Microscopio"}
		created := models.InventoryItem{ID: "ITEM-1", Nombre: "Microscopio", Version: 1}
		repo.On("Create", ctx, input).Return(created, nil).Once()
		bus.On("PublishJSON", events.EventItemCreated, events.ItemEventPayload{
			ItemID: "ITEM-1", Nombre: "Microscopio", Version: 1, ChangedBy: "console",
		}).Return(nil).Once()

		got, err := svc.CreateItem(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("CreateItemValidationError", func(t *testing.T) {
		input := models.InventoryItem{}
		repo.On("Create", ctx, input).Return(models.InventoryItem{}, &models.ValidationError{Field: "nombre", Message: "is required"}).Once()

		_, err := svc.CreateItem(ctx, input)
		assert.ErrorIs(t, err, models.ErrValidation)
		bus.AssertNotCalled(t, "PublishJSON", events.EventItemCreated, events.ItemEventPayload{})
	})

	t.Run("UpdateItemNotFound", func(t *testing.T) {
		input := models.InventoryItem{ID: "ITEM-404"}
		repo.On("Update", ctx, input).Return(models.InventoryItem{}, models.ErrNotFound).Once()

		_, err := svc.UpdateItem(ctx, input)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("DeleteItemPublishes", func(t *testing.T) {
		repo.On("Delete", ctx, "ITEM-1").Return(nil).Once()
		bus.On("PublishJSON", events.EventItemDeleted, mock.AnythingOfType("events.ItemEventPayload")).Return(nil).Once()

		require.NoError(t, svc.DeleteItem(ctx, "ITEM-1"))
		bus.AssertExpectations(t)
	})

	t.Run("PublishErrorIsSwallowed", func(t *testing.T) {
		input := models.InventoryItem{ID: "ITEM-2", Nombre: "Balanza"}
		repo.On("Update", ctx, input).Return(input, nil).Once()
		bus.On("PublishJSON", events.EventItemUpdated, mock.Anything).Return(assert.AnError).Once()

		got, err := svc.UpdateItem(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "ITEM-2", got.ID)
	})
}

func TestInventoryService_Page(t *testing.T) {
	repo := new(mockInventoryRepo)
	logger := zerolog.Nop()
	svc := NewInventoryService(repo, nil, &logger)
	ctx := context.Background()

	items := []models.InventoryItem{
		{ID: "A", Campus: "Campus Norte", Edificio: "FabLab"},
		{ID: "B", Campus: "Campus Norte", Edificio: "Edificio Redes"},
		{ID: "C", Campus: "Campus Sur", Edificio: "Ciencias"},
	}
	repo.On("GetAll", ctx).Return(items, nil)

	page, err := svc.Page(ctx, models.FilterState{Campus: strPtr("Campus Norte"), Edificio: strPtr("FabLab")})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].ID)
	assert.Equal(t, []string{"FabLab", "Edificio Redes"}, page.BuildingOptions)

	bad := models.ItemStatus("Roto")
	_, err = svc.Page(ctx, models.FilterState{Estado: &bad})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, "system", ActorFromContext(context.Background()))
	assert.Equal(t, "admin", ActorFromContext(WithActor(context.Background(), "admin")))
	assert.Equal(t, "system", ActorFromContext(WithActor(context.Background(), "")))
}
