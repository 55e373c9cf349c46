package service

import (
	"context"
	"io"
	"testing"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/events"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingService(t *testing.T) {
	repo := new(mockBookingRepo)
	bus := new(mockEventBus)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, bus, time.UTC, &logger)
	ctx := context.Background()

	t.Run("CreateBooking", func(t *testing.T) {
		input := models.Booking{LaboratorioID: "LAB-1", Asunto: "Clase"}
		created := input
		created.ID = "BV-1"
		created.Estado = models.BookingConfirmed

		repo.On("Create", ctx, input).Return(created, nil).Once()
		bus.On("PublishJSON", events.EventBookingCreated, mock.MatchedBy(func(p events.BookingEventPayload) bool {
			return p.BookingID == "BV-1" && p.Estado == "Confirmada" && p.ChangedBy == "system"
		})).Return(nil).Once()

		got, err := svc.CreateBooking(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "BV-1", got.ID)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("CreateBookingOverlap", func(t *testing.T) {
		input := models.Booking{LaboratorioID: "LAB-2"}
		repo.On("Create", ctx, input).Return(models.Booking{}, models.ErrBookingOverlap).Once()

		_, err := svc.CreateBooking(ctx, input)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("UpdateBooking", func(t *testing.T) {
		status := models.BookingInProgress
		patch := models.BookingPatch{Estado: &status}
		repo.On("Update", ctx, "BV-1", patch).Return(models.Booking{ID: "BV-1", Estado: status}, nil).Once()
		bus.On("PublishJSON", events.EventBookingUpdated, mock.Anything).Return(nil).Once()

		got, err := svc.UpdateBooking(ctx, "BV-1", patch)
		require.NoError(t, err)
		assert.Equal(t, status, got.Estado)
	})

	t.Run("CancelBooking", func(t *testing.T) {
		repo.On("Cancel", ctx, "BV-1").Return(models.Booking{ID: "BV-1", Estado: models.BookingCancelled}, nil).Once()
		bus.On("PublishJSON", events.EventBookingCancelled, mock.Anything).Return(nil).Once()

		got, err := svc.CancelBooking(ctx, "BV-1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, got.Estado)
	})

	t.Run("DeleteBooking", func(t *testing.T) {
		repo.On("Delete", ctx, "BV-1").Return(nil).Once()
		bus.On("PublishJSON", events.EventBookingDeleted, mock.Anything).Return(nil).Once()

		assert.NoError(t, svc.DeleteBooking(ctx, "BV-1"))
		repo.AssertExpectations(t)
	})

	t.Run("ListBookingsPassesFilters", func(t *testing.T) {
		day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
		filters := domain.BookingFilters{Search: "ana", Date: &day}
		repo.On("GetAll", ctx, filters).Return([]models.Booking{{ID: "BV-9"}}, nil).Once()

		got, err := svc.ListBookings(ctx, filters)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestBookingService_Stats(t *testing.T) {
	repo := new(mockBookingRepo)
	logger := zerolog.Nop()
	svc := NewBookingService(repo, nil, time.UTC, &logger)
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	repo.On("GetAll", ctx, domain.BookingFilters{}).Return([]models.Booking{
		{ID: "1", LaboratorioID: "L1", Fecha: now, Estado: models.BookingPending},
		{ID: "2", LaboratorioID: "L2", Fecha: now.AddDate(0, 0, -1), Estado: models.BookingConfirmed},
	}, nil).Once()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ReservasHoy)
	assert.Equal(t, 0, stats.CambioReservasHoy)
	assert.Equal(t, 50, stats.OcupacionPorcentaje)
	assert.Equal(t, 1, stats.Pendientes)

	repo.On("GetAll", ctx, domain.BookingFilters{}).Return(nil, assert.AnError).Once()
	_, err = svc.Stats(ctx)
	assert.Error(t, err)
}
