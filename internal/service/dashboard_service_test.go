package service

import (
	"context"
	"testing"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func costPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestDashboardService(t *testing.T) {
	inventory := new(mockInventoryRepo)
	bookings := new(mockBookingRepo)
	logger := zerolog.Nop()
	svc := NewDashboardService(inventory, bookings, &logger)
	ctx := context.Background()

	day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	inventory.On("GetAll", mock.Anything).Return([]models.InventoryItem{
		{ID: "A", Categoria: models.CategoryComputing, Estado: models.ItemOperational, Costo: costPtr(1000)},
		{ID: "B", Categoria: models.CategoryComputing, Estado: models.ItemUnderMaintenance, Costo: costPtr(250)},
		{ID: "C", Categoria: models.CategoryDesign, Estado: models.ItemDecommissioned},
		{ID: "D", Categoria: models.CategoryNetworking, Estado: models.ItemOnLoan, Costo: costPtr(50)},
	}, nil)
	bookingRows := make([]models.Booking, 0, 7)
	for i, start := range []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00"} {
		estado := models.BookingFinished
		if i%2 == 0 {
			estado = models.BookingConfirmed
		}
		bookingRows = append(bookingRows, models.Booking{ID: start, Fecha: day, HoraInicio: start, Estado: estado})
	}
	bookings.On("GetAll", mock.Anything, domain.BookingFilters{}).Return(bookingRows, nil)

	t.Run("KPIs", func(t *testing.T) {
		kpis, err := svc.KPIs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, kpis.TotalActivos)
		assert.Equal(t, 1, kpis.ActivosOperativos)
		assert.Equal(t, 1, kpis.ActivosEnMantenimiento)
		assert.Equal(t, "1300", kpis.ValorTotalInventario.String())
		assert.Equal(t, 4, kpis.ReservasActivas)
	})

	t.Run("AssetDistribution", func(t *testing.T) {
		dist, err := svc.AssetDistribution(ctx)
		require.NoError(t, err)
		require.Len(t, dist, 3)
		assert.Equal(t, "Cómputo", dist[0].Label)
		assert.Equal(t, 50.0, dist[0].Percentage)
	})

	t.Run("RecentActivity", func(t *testing.T) {
		recent, err := svc.RecentActivity(ctx)
		require.NoError(t, err)
		require.Len(t, recent, models.DefaultRecentActivity)
		assert.Equal(t, "14:00", recent[0].HoraInicio)
	})

	t.Run("Dashboard", func(t *testing.T) {
		d, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, d.KPIs.TotalActivos)
		assert.Len(t, d.Distribution, 3)
		assert.Len(t, d.RecentActivity, models.DefaultRecentActivity)
	})
}

func TestDashboardService_LoadError(t *testing.T) {
	inventory := new(mockInventoryRepo)
	bookings := new(mockBookingRepo)
	logger := zerolog.Nop()
	svc := NewDashboardService(inventory, bookings, &logger)

	inventory.On("GetAll", mock.Anything).Return(nil, assert.AnError)
	bookings.On("GetAll", mock.Anything, mock.Anything).Return([]models.Booking{}, nil)

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
