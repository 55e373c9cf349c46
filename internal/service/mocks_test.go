package service

import (
	"context"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockInventoryRepo struct {
	mock.Mock
}

func (m *mockInventoryRepo) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *mockInventoryRepo) GetByID(ctx context.Context, id string) (models.InventoryItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.InventoryItem), args.Error(1)
}

func (m *mockInventoryRepo) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.InventoryItem), args.Error(1)
}

func (m *mockInventoryRepo) Update(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.InventoryItem), args.Error(1)
}

func (m *mockInventoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetAll(ctx context.Context, filters domain.BookingFilters) ([]models.Booking, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingRepo) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookingRepo) Update(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id string) (models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockMovementRepo struct {
	mock.Mock
}

func (m *mockMovementRepo) GetAll(ctx context.Context, filters domain.MovementFilters) ([]models.Movement, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movement), args.Error(1)
}

func (m *mockMovementRepo) RegisterMovement(ctx context.Context, mv models.Movement) (models.Movement, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(models.Movement), args.Error(1)
}

type mockViewStateRepo struct {
	mock.Mock
}

func (m *mockViewStateRepo) GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FilterState), args.Error(1)
}

func (m *mockViewStateRepo) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error {
	return m.Called(ctx, sessionID, filter).Error(0)
}

func (m *mockViewStateRepo) ClearFilter(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockViewStateRepo) CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, sessionID, limit, window)
	return args.Bool(0), args.Error(1)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

func strPtr(s string) *string { return &s }
