package service

import (
	"context"
	"sync"

	"labtrack/internal/domain"
	"labtrack/internal/models"
	"labtrack/internal/view"

	"github.com/rs/zerolog"
)

// Dashboard is the full payload of the console landing page.
type Dashboard struct {
	KPIs           view.DashboardKPIs       `json:"kpis"`
	Distribution   []view.AssetDistribution `json:"distribution"`
	RecentActivity []models.Booking         `json:"recentActivity"`
}

type DashboardService struct {
	inventory      domain.InventoryRepository
	bookings       domain.BookingRepository
	recentActivity int
	logger         *zerolog.Logger
}

func NewDashboardService(inventory domain.InventoryRepository, bookings domain.BookingRepository, logger *zerolog.Logger) *DashboardService {
	return &DashboardService{
		inventory:      inventory,
		bookings:       bookings,
		recentActivity: models.DefaultRecentActivity,
		logger:         logger,
	}
}

func (s *DashboardService) KPIs(ctx context.Context) (view.DashboardKPIs, error) {
	items, bookings, err := s.load(ctx)
	if err != nil {
		return view.DashboardKPIs{}, err
	}
	return view.ComputeKPIs(items, bookings), nil
}

func (s *DashboardService) AssetDistribution(ctx context.Context) ([]view.AssetDistribution, error) {
	items, err := s.inventory.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return view.ComputeAssetDistribution(items), nil
}

func (s *DashboardService) RecentActivity(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.GetAll(ctx, domain.BookingFilters{})
	if err != nil {
		return nil, err
	}
	return view.RecentActivity(bookings, s.recentActivity), nil
}

func (s *DashboardService) Dashboard(ctx context.Context) (Dashboard, error) {
	items, bookings, err := s.load(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		KPIs:           view.ComputeKPIs(items, bookings),
		Distribution:   view.ComputeAssetDistribution(items),
		RecentActivity: view.RecentActivity(bookings, s.recentActivity),
	}, nil
}

// load fetches inventory and bookings concurrently so the simulated
// latencies overlap.
func (s *DashboardService) load(ctx context.Context) ([]models.InventoryItem, []models.Booking, error) {
	var (
		wg          sync.WaitGroup
		items       []models.InventoryItem
		bookings    []models.Booking
		errItems    error
		errBookings error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, errItems = s.inventory.GetAll(ctx)
	}()
	go func() {
		defer wg.Done()
		bookings, errBookings = s.bookings.GetAll(ctx, domain.BookingFilters{})
	}()
	wg.Wait()

	if errItems != nil {
		s.logger.Error().Err(errItems).Msg("dashboard: load inventory failed")
		return nil, nil, errItems
	}
	if errBookings != nil {
		s.logger.Error().Err(errBookings).Msg("dashboard: load bookings failed")
		return nil, nil, errBookings
	}
	return items, bookings, nil
}
