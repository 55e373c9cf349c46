package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the failover repository stays on the
// fallback before probing the primary again.
const recoveryInterval = time.Minute

// FailoverViewStateRepository serves from primary and switches to fallback
// while primary is failing.
type FailoverViewStateRepository struct {
	primary  domain.ViewStateRepository
	fallback domain.ViewStateRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverViewStateRepository(primary, fallback domain.ViewStateRepository, logger *zerolog.Logger) *FailoverViewStateRepository {
	return &FailoverViewStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverViewStateRepository) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary view-state repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// usePrimary reports whether the next call should go to the primary, either
// because it is healthy or because a recovery probe is due.
func (r *FailoverViewStateRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}

func (r *FailoverViewStateRepository) recovered() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary view-state repository recovered")
	}
}

func (r *FailoverViewStateRepository) GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error) {
	if r.usePrimary() {
		filter, err := r.primary.GetFilter(ctx, sessionID)
		if err == nil {
			r.recovered()
			return filter, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetFilter(ctx, sessionID)
}

func (r *FailoverViewStateRepository) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error {
	if r.usePrimary() {
		err := r.primary.SetFilter(ctx, sessionID, filter)
		if err == nil {
			r.recovered()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetFilter(ctx, sessionID, filter)
}

func (r *FailoverViewStateRepository) ClearFilter(ctx context.Context, sessionID string) error {
	if r.usePrimary() {
		err := r.primary.ClearFilter(ctx, sessionID)
		if err == nil {
			r.recovered()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.ClearFilter(ctx, sessionID)
}

func (r *FailoverViewStateRepository) CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, sessionID, limit, window)
		if err == nil {
			r.recovered()
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, sessionID, limit, window)
}
