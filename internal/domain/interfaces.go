package domain

import (
	"context"
	"time"

	"labtrack/internal/models"
)

// BookingFilters narrows Booking.GetAll. Zero values disable a predicate.
type BookingFilters struct {
	Search string
	Date   *time.Time
}

// MovementFilters narrows Movement.GetAll. Date bounds are inclusive calendar days.
type MovementFilters struct {
	Search      string
	Tipo        models.MovementType
	FechaInicio *time.Time
	FechaFin    *time.Time
}

type InventoryRepository interface {
	GetAll(ctx context.Context) ([]models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (models.InventoryItem, error)
	Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	Update(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	GetAll(ctx context.Context, filters BookingFilters) ([]models.Booking, error)
	Create(ctx context.Context, booking models.Booking) (models.Booking, error)
	Update(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error)
	Cancel(ctx context.Context, id string) (models.Booking, error)
	Delete(ctx context.Context, id string) error
}

type MovementRepository interface {
	GetAll(ctx context.Context, filters MovementFilters) ([]models.Movement, error)
	RegisterMovement(ctx context.Context, movement models.Movement) (models.Movement, error)
}

// ViewStateRepository keeps the dependent inventory filters of a console session.
type ViewStateRepository interface {
	GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error)
	SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error
	ClearFilter(ctx context.Context, sessionID string) error
	CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type InventoryService interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	GetItem(ctx context.Context, id string) (models.InventoryItem, error)
	CreateItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	UpdateItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
}

type BookingService interface {
	ListBookings(ctx context.Context, filters BookingFilters) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking models.Booking) (models.Booking, error)
	UpdateBooking(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error)
	CancelBooking(ctx context.Context, id string) (models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type MovementService interface {
	ListMovements(ctx context.Context, filters MovementFilters) ([]models.Movement, error)
	RegisterMovement(ctx context.Context, movement models.Movement) (models.Movement, error)
}
