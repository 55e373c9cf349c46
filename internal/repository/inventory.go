package repository

import (
	"context"
	"fmt"

	"labtrack/internal/models"
	"labtrack/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const entityInventory = "inventory"

type InventoryRepository struct {
	store  *store.Store
	opts   Options
	logger zerolog.Logger
}

func NewInventoryRepository(st *store.Store, opts Options) *InventoryRepository {
	opts = opts.withDefaults()
	return &InventoryRepository{
		store:  st,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "inventory_repository").Logger(),
	}
}

// GetAll returns every item in insertion order.
func (r *InventoryRepository) GetAll(ctx context.Context) (items []models.InventoryItem, err error) {
	defer func() { observe(entityInventory, "get_all", err) }()

	if err = simulate(ctx, r.opts.Latency.Read); err != nil {
		return nil, err
	}

	r.store.Items().View(func(rows []models.InventoryItem) {
		items = make([]models.InventoryItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, row.Clone())
		}
	})
	return items, nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id string) (item models.InventoryItem, err error) {
	defer func() { observe(entityInventory, "get", err) }()

	if err = simulate(ctx, r.opts.Latency.Read); err != nil {
		return models.InventoryItem{}, err
	}

	found := false
	r.store.Items().View(func(rows []models.InventoryItem) {
		if idx := indexOfItem(rows, id); idx >= 0 {
			item = rows[idx].Clone()
			found = true
		}
	})
	if !found {
		return models.InventoryItem{}, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	return item, nil
}

// Create assigns a server id, defaults the acquisition date to now and the
// cost to zero, and appends the item.
func (r *InventoryRepository) Create(ctx context.Context, item models.InventoryItem) (created models.InventoryItem, err error) {
	defer func() { observe(entityInventory, "create", err) }()

	if err = simulate(ctx, r.opts.Latency.Create); err != nil {
		return models.InventoryItem{}, err
	}

	item = item.Clone()
	item.ID = newID(models.ItemIDPrefix)
	item.Version = 1
	if item.FechaAdquisicion == nil {
		now := r.opts.Now()
		item.FechaAdquisicion = &now
	}
	if item.Costo == nil {
		zero := decimal.Zero
		item.Costo = &zero
	}
	if err = r.validate(item); err != nil {
		return models.InventoryItem{}, err
	}

	err = r.store.Items().Mutate(func(rows []models.InventoryItem) ([]models.InventoryItem, error) {
		return append(rows, item.Clone()), nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}

	r.logger.Debug().Str("item_id", item.ID).Msg("item created")
	return item, nil
}

// Update replaces the stored item with the same id. A non-zero version must
// match the stored one, and a decommissioned item cannot leave "De Baja".
func (r *InventoryRepository) Update(ctx context.Context, item models.InventoryItem) (updated models.InventoryItem, err error) {
	defer func() { observe(entityInventory, "update", err) }()

	if err = simulate(ctx, r.opts.Latency.Update); err != nil {
		return models.InventoryItem{}, err
	}
	if err = r.validate(item); err != nil {
		return models.InventoryItem{}, err
	}

	err = r.store.Items().Mutate(func(rows []models.InventoryItem) ([]models.InventoryItem, error) {
		idx := indexOfItem(rows, item.ID)
		if idx < 0 {
			return nil, fmt.Errorf("item %s: %w", item.ID, models.ErrNotFound)
		}
		current := rows[idx]
		if item.Version != 0 && item.Version != current.Version {
			return nil, fmt.Errorf("item %s at version %d: %w", item.ID, item.Version, models.ErrVersionConflict)
		}
		if current.Estado == models.ItemDecommissioned && item.Estado != models.ItemDecommissioned {
			return nil, fmt.Errorf("item %s: %w", item.ID, models.ErrItemDecommissioned)
		}

		updated = item.Clone()
		updated.Version = current.Version + 1
		rows[idx] = updated.Clone()
		return rows, nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	return updated, nil
}

// Delete removes the item. Deleting a missing id is a no-op.
func (r *InventoryRepository) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe(entityInventory, "delete", err) }()

	if err = simulate(ctx, r.opts.Latency.Delete); err != nil {
		return err
	}

	return r.store.Items().Mutate(func(rows []models.InventoryItem) ([]models.InventoryItem, error) {
		idx := indexOfItem(rows, id)
		if idx < 0 {
			return rows, nil
		}
		return append(rows[:idx:idx], rows[idx+1:]...), nil
	})
}

func (r *InventoryRepository) validate(item models.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return r.opts.Catalog.CheckContainment("", item.Campus, item.Edificio)
}

func indexOfItem(rows []models.InventoryItem, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
