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

type BookingService struct {
	repo     domain.BookingRepository
	eventBus domain.EventPublisher
	location *time.Location
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.BookingRepository, eventBus domain.EventPublisher, location *time.Location, logger *zerolog.Logger) *BookingService {
	if location == nil {
		location = time.Local
	}
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *BookingService) ListBookings(ctx context.Context, filters domain.BookingFilters) ([]models.Booking, error) {
	return s.repo.GetAll(ctx, filters)
}

func (s *BookingService) CreateBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.logger.Warn().Err(err).Str("lab_id", booking.LaboratorioID).Msg("create booking failed")
		return models.Booking{}, err
	}

	s.logger.Info().Str("booking_id", created.ID).Str("lab_id", created.LaboratorioID).Msg("booking created")
	s.publishEvent(ctx, events.EventBookingCreated, created)
	return created, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id).Msg("update booking failed")
		return models.Booking{}, err
	}

	s.publishEvent(ctx, events.EventBookingUpdated, updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (models.Booking, error) {
	cancelled, err := s.repo.Cancel(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id).Msg("cancel booking failed")
		return models.Booking{}, err
	}

	s.logger.Info().Str("booking_id", id).Msg("booking cancelled")
	s.publishEvent(ctx, events.EventBookingCancelled, cancelled)
	return cancelled, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id).Msg("delete booking failed")
		return err
	}

	s.publishEvent(ctx, events.EventBookingDeleted, models.Booking{ID: id})
	return nil
}

// Stats summarizes today's bookings.
func (s *BookingService) Stats(ctx context.Context) (view.BookingStats, error) {
	bookings, err := s.repo.GetAll(ctx, domain.BookingFilters{})
	if err != nil {
		return view.BookingStats{}, err
	}
	return view.ComputeBookingStats(bookings, s.now(), s.location), nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		LaboratorioID: booking.LaboratorioID,
		Solicitante:   booking.Solicitante,
		Estado:        string(booking.Estado),
		Date:          booking.Fecha,
		HoraInicio:    booking.HoraInicio,
		HoraFin:       booking.HoraFin,
		ChangedBy:     ActorFromContext(ctx),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
