package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"labtrack/internal/domain"
	"labtrack/internal/metrics"
	"labtrack/internal/models"
	"labtrack/internal/store"

	"github.com/rs/zerolog"
)

const entityMovement = "movement"

type MovementRepository struct {
	store  *store.Store
	opts   Options
	logger zerolog.Logger
}

func NewMovementRepository(st *store.Store, opts Options) *MovementRepository {
	opts = opts.withDefaults()
	return &MovementRepository{
		store:  st,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "movement_repository").Logger(),
	}
}

// GetAll filters by search text, type and an inclusive date range, newest first.
func (r *MovementRepository) GetAll(ctx context.Context, filters domain.MovementFilters) (movements []models.Movement, err error) {
	defer func() { observe(entityMovement, "get_all", err) }()

	if err = simulate(ctx, r.opts.Latency.Read); err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	r.store.Movements().View(func(rows []models.Movement) {
		movements = make([]models.Movement, 0, len(rows))
		for _, m := range rows {
			if search != "" && !movementMatches(m, search) {
				continue
			}
			if filters.Tipo != "" && m.Tipo != filters.Tipo {
				continue
			}
			if !r.inRange(m, filters) {
				continue
			}
			movements = append(movements, m.Clone())
		}
	})

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Fecha.After(movements[j].Fecha)
	})
	return movements, nil
}

func movementMatches(m models.Movement, search string) bool {
	return strings.Contains(strings.ToLower(m.ItemNombre), search) ||
		strings.Contains(strings.ToLower(m.Responsable), search) ||
		strings.Contains(strings.ToLower(m.ID), search)
}

func (r *MovementRepository) inRange(m models.Movement, filters domain.MovementFilters) bool {
	day := models.StartOfDay(m.Fecha, r.opts.Location)
	if filters.FechaInicio != nil && day.Before(models.StartOfDay(*filters.FechaInicio, r.opts.Location)) {
		return false
	}
	if filters.FechaFin != nil && day.After(models.StartOfDay(*filters.FechaFin, r.opts.Location)) {
		return false
	}
	return true
}

// RegisterMovement logs the movement and applies its effect to the item it
// refers to. When the item exists its current location and name are
// recorded on the movement; when it does not, only the log entry is written.
func (r *MovementRepository) RegisterMovement(ctx context.Context, movement models.Movement) (registered models.Movement, err error) {
	defer func() { observe(entityMovement, "register", err) }()

	if err = simulate(ctx, r.opts.Latency.Create); err != nil {
		return models.Movement{}, err
	}

	movement = movement.Clone()
	movement.ID = newID(models.MovementIDPrefix)
	if movement.Fecha.IsZero() {
		movement.Fecha = r.opts.Now()
	}
	if err = movement.Validate(); err != nil {
		return models.Movement{}, err
	}
	if movement.Tipo.RelocatesItem() {
		if err = r.opts.Catalog.CheckContainment("destino.", movement.Destino.Campus, movement.Destino.Edificio); err != nil {
			return models.Movement{}, err
		}
	}

	itemFound := false
	err = r.store.MutateInventoryAndMovements(func(items []models.InventoryItem, log []models.Movement) ([]models.InventoryItem, []models.Movement, error) {
		idx := indexOfItem(items, movement.ItemID)
		if idx >= 0 {
			item := items[idx]
			if item.Estado == models.ItemDecommissioned {
				return nil, nil, fmt.Errorf("item %s: %w", item.ID, models.ErrItemDecommissioned)
			}
			movement.Origen = item.Location()
			movement.ItemNombre = item.Nombre

			item.Estado = movement.Tipo.ResultingStatus()
			if movement.Tipo.RelocatesItem() {
				item.MoveTo(*movement.Destino)
			}
			item.Version++
			items[idx] = item
			itemFound = true
		}

		return items, append([]models.Movement{movement.Clone()}, log...), nil
	})
	if err != nil {
		return models.Movement{}, err
	}

	metrics.IncMovement(movement.Tipo)
	if !itemFound {
		r.logger.Warn().Str("movement_id", movement.ID).Str("item_id", movement.ItemID).Msg("movement logged for unknown item")
	}
	return movement, nil
}
