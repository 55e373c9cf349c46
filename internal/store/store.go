// Package store holds the in-memory collections that stand in for a database.
// A Store is constructed once and injected into the repositories that own
// its collections; there is no package-level state.
package store

import (
	"sync"

	"labtrack/internal/models"
)

// Collection is a mutex-guarded slice of rows.
type Collection[T any] struct {
	mu   sync.RWMutex
	rows []T
}

// View runs fn under the read lock. fn must not retain rows.
func (c *Collection[T]) View(fn func(rows []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.rows)
}

// Mutate runs fn under the write lock and stores the returned rows unless fn fails.
func (c *Collection[T]) Mutate(fn func(rows []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutateLocked(fn)
}

func (c *Collection[T]) mutateLocked(fn func(rows []T) ([]T, error)) error {
	next, err := fn(c.rows)
	if err != nil {
		return err
	}
	c.rows = next
	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

type Store struct {
	items     Collection[models.InventoryItem]
	bookings  Collection[models.Booking]
	movements Collection[models.Movement]
}

// New builds a store holding deep copies of the seed rows.
func New(seed Seed) *Store {
	s := &Store{}
	s.items.rows = make([]models.InventoryItem, 0, len(seed.Items))
	for _, item := range seed.Items {
		item = item.Clone()
		if item.Version == 0 {
			item.Version = 1
		}
		s.items.rows = append(s.items.rows, item)
	}
	s.bookings.rows = append([]models.Booking(nil), seed.Bookings...)
	s.movements.rows = make([]models.Movement, 0, len(seed.Movements))
	for _, m := range seed.Movements {
		s.movements.rows = append(s.movements.rows, m.Clone())
	}
	return s
}

func (s *Store) Items() *Collection[models.InventoryItem] { return &s.items }
func (s *Store) Bookings() *Collection[models.Booking]    { return &s.bookings }
func (s *Store) Movements() *Collection[models.Movement]  { return &s.movements }

// MutateInventoryAndMovements holds both write locks for the duration of fn,
// always acquiring the inventory lock first. Either both collections are
// replaced or, when fn fails, neither is.
func (s *Store) MutateInventoryAndMovements(
	fn func(items []models.InventoryItem, movements []models.Movement) ([]models.InventoryItem, []models.Movement, error),
) error {
	s.items.mu.Lock()
	defer s.items.mu.Unlock()
	s.movements.mu.Lock()
	defer s.movements.mu.Unlock()

	items, movements, err := fn(s.items.rows, s.movements.rows)
	if err != nil {
		return err
	}
	s.items.rows = items
	s.movements.rows = movements
	return nil
}
