package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"labtrack/internal/domain"
	"labtrack/internal/models"
	"labtrack/internal/store"

	"github.com/rs/zerolog"
)

const (
	entityBooking = "booking"

	// defaultLabName is used when a new booking names neither a lab nor a
	// lab id seen on an earlier booking.
	defaultLabName = "Lab Asignado"
)

type BookingRepository struct {
	store  *store.Store
	opts   Options
	logger zerolog.Logger
}

func NewBookingRepository(st *store.Store, opts Options) *BookingRepository {
	opts = opts.withDefaults()
	return &BookingRepository{
		store:  st,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "booking_repository").Logger(),
	}
}

// GetAll filters by calendar date and by a case-insensitive search over the
// requester, lab name and subject, then sorts ascending by start time.
func (r *BookingRepository) GetAll(ctx context.Context, filters domain.BookingFilters) (bookings []models.Booking, err error) {
	defer func() { observe(entityBooking, "get_all", err) }()

	if err = simulate(ctx, r.opts.Latency.Read); err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	r.store.Bookings().View(func(rows []models.Booking) {
		bookings = make([]models.Booking, 0, len(rows))
		for _, b := range rows {
			if filters.Date != nil && !models.SameDay(b.Fecha, *filters.Date, r.opts.Location) {
				continue
			}
			if search != "" && !bookingMatches(b, search) {
				continue
			}
			bookings = append(bookings, b)
		}
	})

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].HoraInicio < bookings[j].HoraInicio
	})
	return bookings, nil
}

func bookingMatches(b models.Booking, search string) bool {
	return strings.Contains(strings.ToLower(b.Solicitante), search) ||
		strings.Contains(strings.ToLower(b.LaboratorioNombre), search) ||
		strings.Contains(strings.ToLower(b.Asunto), search)
}

// Create stores a confirmed booking at the head of the collection.
func (r *BookingRepository) Create(ctx context.Context, booking models.Booking) (created models.Booking, err error) {
	defer func() { observe(entityBooking, "create", err) }()

	if err = simulate(ctx, r.opts.Latency.Create); err != nil {
		return models.Booking{}, err
	}

	booking.ID = newID(models.BookingIDPrefix)
	booking.Estado = models.BookingConfirmed
	if err = r.validate(booking); err != nil {
		return models.Booking{}, err
	}

	err = r.store.Bookings().Mutate(func(rows []models.Booking) ([]models.Booking, error) {
		if strings.TrimSpace(booking.LaboratorioNombre) == "" {
			booking.LaboratorioNombre = labNameFor(rows, booking.LaboratorioID)
		}
		if conflict := findOverlap(rows, booking, r.opts); conflict != nil {
			return nil, fmt.Errorf("booking overlaps %s: %w", conflict.ID, models.ErrBookingOverlap)
		}
		return append([]models.Booking{booking}, rows...), nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	r.logger.Debug().Str("booking_id", booking.ID).Str("lab_id", booking.LaboratorioID).Msg("booking created")
	return booking, nil
}

// Update merges the patch into the stored booking and re-validates the result.
func (r *BookingRepository) Update(ctx context.Context, id string, patch models.BookingPatch) (updated models.Booking, err error) {
	defer func() { observe(entityBooking, "update", err) }()

	if err = simulate(ctx, r.opts.Latency.Update); err != nil {
		return models.Booking{}, err
	}

	err = r.store.Bookings().Mutate(func(rows []models.Booking) ([]models.Booking, error) {
		idx := indexOfBooking(rows, id)
		if idx < 0 {
			return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
		}
		merged := patch.Apply(rows[idx])
		if err := r.validate(merged); err != nil {
			return nil, err
		}
		if conflict := findOverlap(rows, merged, r.opts); conflict != nil {
			return nil, fmt.Errorf("booking overlaps %s: %w", conflict.ID, models.ErrBookingOverlap)
		}
		rows[idx] = merged
		updated = merged
		return rows, nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return updated, nil
}

// Cancel marks the booking as cancelled, releasing its time slot.
func (r *BookingRepository) Cancel(ctx context.Context, id string) (cancelled models.Booking, err error) {
	defer func() { observe(entityBooking, "cancel", err) }()

	if err = simulate(ctx, r.opts.Latency.Update); err != nil {
		return models.Booking{}, err
	}

	err = r.store.Bookings().Mutate(func(rows []models.Booking) ([]models.Booking, error) {
		idx := indexOfBooking(rows, id)
		if idx < 0 {
			return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
		}
		rows[idx].Estado = models.BookingCancelled
		cancelled = rows[idx]
		return rows, nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return cancelled, nil
}

// Delete removes the booking. Deleting a missing id is a no-op.
func (r *BookingRepository) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe(entityBooking, "delete", err) }()

	if err = simulate(ctx, r.opts.Latency.Delete); err != nil {
		return err
	}

	return r.store.Bookings().Mutate(func(rows []models.Booking) ([]models.Booking, error) {
		idx := indexOfBooking(rows, id)
		if idx < 0 {
			return rows, nil
		}
		return append(rows[:idx:idx], rows[idx+1:]...), nil
	})
}

func (r *BookingRepository) validate(b models.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return r.opts.Catalog.CheckContainment("", b.Campus, b.Edificio)
}

// findOverlap returns an active booking, other than b, holding the same lab
// on the same day with an intersecting time range.
func findOverlap(rows []models.Booking, b models.Booking, opts Options) *models.Booking {
	if !b.Active() {
		return nil
	}
	for i := range rows {
		other := rows[i]
		if other.ID == b.ID || !other.Active() {
			continue
		}
		if b.Overlaps(other, opts.Location) {
			return &rows[i]
		}
	}
	return nil
}

func labNameFor(rows []models.Booking, labID string) string {
	for _, b := range rows {
		if b.LaboratorioID == labID && b.LaboratorioNombre != "" {
			return b.LaboratorioNombre
		}
	}
	return defaultLabName
}

func indexOfBooking(rows []models.Booking, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
