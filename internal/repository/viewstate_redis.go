package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisViewStateRepository keeps session filters in Redis so they survive
// restarts and are shared between console instances.
type RedisViewStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisViewStateRepository(client *redis.Client, ttl time.Duration) *RedisViewStateRepository {
	return &RedisViewStateRepository{
		client: client,
		ttl:    ttl,
	}
}

func filterKey(sessionID string) string {
	return "view_filter:" + sessionID
}

func (r *RedisViewStateRepository) GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error) {
	if r.client == nil {
		return nil, errors.New("redis client is nil")
	}
	val, err := r.client.Get(ctx, filterKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter from redis: %w", err)
	}

	var filter models.FilterState
	if err := json.Unmarshal([]byte(val), &filter); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter: %w", err)
	}
	return &filter, nil
}

func (r *RedisViewStateRepository) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return fmt.Errorf("failed to marshal filter: %w", err)
	}
	if err := r.client.Set(ctx, filterKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set filter in redis: %w", err)
	}
	return nil
}

func (r *RedisViewStateRepository) ClearFilter(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Del(ctx, filterKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete filter from redis: %w", err)
	}
	return nil
}

func (r *RedisViewStateRepository) CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errors.New("redis client is nil")
	}
	key := "rate_limit:" + sessionID
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(limit), nil
}

func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
