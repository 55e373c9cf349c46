package api

import (
	"testing"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/events"
	"labtrack/internal/export"
	"labtrack/internal/models"
	"labtrack/internal/repository"
	"labtrack/internal/service"
	"labtrack/internal/store"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) Services {
	t.Helper()

	logger := zerolog.Nop()
	st := store.New(store.DefaultSeed(testNow, time.UTC))
	opts := repository.Options{
		Catalog:  models.DefaultLocationCatalog(),
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
		Logger:   &logger,
	}

	inventoryRepo := repository.NewInventoryRepository(st, opts)
	bookingRepo := repository.NewBookingRepository(st, opts)
	movementRepo := repository.NewMovementRepository(st, opts)
	bus := events.NewEventBus()

	return Services{
		Inventory: service.NewInventoryService(inventoryRepo, bus, &logger),
		Bookings:  service.NewBookingService(bookingRepo, bus, time.UTC, &logger),
		Movements: service.NewMovementService(movementRepo, inventoryRepo, bus, time.UTC, &logger),
		Dashboard: service.NewDashboardService(inventoryRepo, bookingRepo, &logger),
		ViewState: service.NewViewStateService(
			repository.NewMemoryViewStateRepository(time.Hour),
			config.SessionsConfig{TTL: time.Hour, RateLimitRequests: 100, RateLimitWindow: time.Minute},
			models.DefaultLocationCatalog(),
			&logger,
		),
		Exporter:  export.NewExporter(inventoryRepo, movementRepo, config.ExportConfig{Path: t.TempDir()}, time.UTC, &logger),
		Locations: models.DefaultLocationCatalog(),
		Location:  time.UTC,
	}
}

func openAPIConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 0},
	}
}

func strPtr(s string) *string { return &s }
