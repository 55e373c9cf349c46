package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleFilter() models.FilterState {
	campus := "Campus Norte"
	status := models.ItemOperational
	return models.FilterState{Campus: &campus, Estado: &status}
}

func TestMemoryViewStateRepository(t *testing.T) {
	repo := NewMemoryViewStateRepository(time.Hour)
	ctx := context.Background()

	got, err := repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SetFilter(ctx, "s1", sampleFilter()))
	got, err = repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Campus Norte", *got.Campus)

	require.NoError(t, repo.ClearFilter(ctx, "s1"))
	got, err = repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryViewStateRepository_Expiry(t *testing.T) {
	repo := NewMemoryViewStateRepository(time.Minute)
	now := time.Now()
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.SetFilter(ctx, "s1", sampleFilter()))
	now = now.Add(2 * time.Minute)

	got, err := repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryViewStateRepository_RateLimit(t *testing.T) {
	repo := NewMemoryViewStateRepository(time.Hour)
	now := time.Now()
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "s1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := repo.CheckRateLimit(ctx, "s1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, err = repo.CheckRateLimit(ctx, "s1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisViewStateRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	repo := NewRedisViewStateRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, Ping(ctx, client))

	got, err := repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SetFilter(ctx, "s1", sampleFilter()))
	assert.True(t, mr.Exists("view_filter:s1"))
	assert.Equal(t, time.Hour, mr.TTL("view_filter:s1"))

	got, err = repo.GetFilter(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleFilter(), *got)
	assert.Nil(t, got.Edificio)

	require.NoError(t, repo.ClearFilter(ctx, "s1"))
	assert.False(t, mr.Exists("view_filter:s1"))
}

func TestRedisViewStateRepository_RateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	repo := NewRedisViewStateRepository(client, time.Hour)
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, "s1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rate_limit:s1"))

	allowed, err = repo.CheckRateLimit(ctx, "s1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Minute)
	allowed, err = repo.CheckRateLimit(ctx, "s1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisViewStateRepository_Errors(t *testing.T) {
	ctx := context.Background()

	nilRepo := NewRedisViewStateRepository(nil, time.Hour)
	_, err := nilRepo.GetFilter(ctx, "s1")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()
	repo := NewRedisViewStateRepository(client, time.Hour)

	require.NoError(t, mr.Set("view_filter:bad", "{not json"))
	_, err = repo.GetFilter(ctx, "bad")
	assert.Error(t, err)

	mr.Close()
	assert.Error(t, repo.SetFilter(ctx, "s1", sampleFilter()))
}

type mockViewStateRepo struct {
	mock.Mock
}

func (m *mockViewStateRepo) GetFilter(ctx context.Context, sessionID string) (*models.FilterState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FilterState), args.Error(1)
}

func (m *mockViewStateRepo) SetFilter(ctx context.Context, sessionID string, filter models.FilterState) error {
	return m.Called(ctx, sessionID, filter).Error(0)
}

func (m *mockViewStateRepo) ClearFilter(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockViewStateRepo) CheckRateLimit(ctx context.Context, sessionID string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, sessionID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverViewStateRepository(t *testing.T) {
	primary := new(mockViewStateRepo)
	fallback := new(mockViewStateRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverViewStateRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		filter := sampleFilter()
		primary.On("GetFilter", ctx, "s1").Return(&filter, nil).Once()

		got, err := repo.GetFilter(ctx, "s1")
		assert.NoError(t, err)
		assert.Equal(t, &filter, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		filter := sampleFilter()
		primary.On("GetFilter", ctx, "s2").Return(nil, errors.New("fail")).Once()
		fallback.On("GetFilter", ctx, "s2").Return(&filter, nil).Once()

		got, err := repo.GetFilter(ctx, "s2")
		assert.NoError(t, err)
		assert.Equal(t, &filter, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackWhileDown", func(t *testing.T) {
		fallback.On("ClearFilter", ctx, "s3").Return(nil).Once()

		assert.NoError(t, repo.ClearFilter(ctx, "s3"))
		primary.AssertNotCalled(t, "ClearFilter", ctx, "s3")
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		filter := sampleFilter()
		primary.On("SetFilter", ctx, "s4", filter).Return(nil).Once()

		assert.NoError(t, repo.SetFilter(ctx, "s4", filter))
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("CheckRateLimit", ctx, "s5", 10, time.Minute).Return(false, errors.New("still fail")).Once()
		fallback.On("CheckRateLimit", ctx, "s5", 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "s5", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
