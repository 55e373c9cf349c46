package repository

import (
	"context"
	"sync"
	"time"

	"labtrack/internal/models"
)

type memoryFilter struct {
	filter    models.FilterState
	expiresAt time.Time
}

// MemoryViewStateRepository keeps session filters in process memory.
type MemoryViewStateRepository struct {
	filters    sync.Map
	rateLimits sync.Map
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryViewStateRepository(ttl time.Duration) *MemoryViewStateRepository {
	return &MemoryViewStateRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryViewStateRepository) GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error) {
	val, ok := r.filters.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryFilter)
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.filters.Delete(sessionID)
		return nil, nil
	}
	filter := entry.filter
	return &filter, nil
}

func (r *MemoryViewStateRepository) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error {
	r.filters.Store(sessionID, memoryFilter{filter: filter, expiresAt: r.now().Add(r.ttl)})
	return nil
}

func (r *MemoryViewStateRepository) ClearFilter(ctx context.Context, sessionID string) error {
	r.filters.Delete(sessionID)
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemoryViewStateRepository) CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error) {
	now := r.now()
	val, _ := r.rateLimits.LoadOrStore(sessionID, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.count == 0 || now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}
	return entry.count <= limit, nil
}
