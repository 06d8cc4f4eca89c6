package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate delivery is skipped", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := &recordingHandler{types: []string{"OrderPlaced"}}
		h := NewIdempotentHandler(inner, store, shared.DefaultIdempotencyConfig(), zap.NewNop())

		event := newTestEvent("OrderPlaced")
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, newTestEvent("OrderPlaced")))

		assert.Equal(t, 2, inner.count())
		assert.Equal(t, IdempotencyStats{EventsProcessed: 2, EventsDuplicate: 1}, h.Stats())
		assert.Equal(t, []string{"OrderPlaced"}, h.EventTypes())
	})

	t.Run("failure releases the key for retry", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := &recordingHandler{err: errors.New("exporter down")}
		h := NewIdempotentHandler(inner, store, shared.DefaultIdempotencyConfig(), zap.NewNop())

		event := newTestEvent("OrderPlaced")
		require.Error(t, h.Handle(ctx, event))

		inner.err = nil
		require.NoError(t, h.Handle(ctx, event))
		assert.Equal(t, 2, inner.count())
		assert.Equal(t, int64(1), h.Stats().EventsFailed)
	})

	t.Run("store error still processes", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.AnythingOfType("string"), 24*time.Hour).
			Return(false, errors.New("redis down"))
		inner := &recordingHandler{}
		h := NewIdempotentHandler(inner, store, shared.DefaultIdempotencyConfig(), zap.NewNop())

		require.NoError(t, h.Handle(ctx, newTestEvent("OrderPlaced")))
		assert.Equal(t, 1, inner.count())
		store.AssertExpectations(t)
	})

	t.Run("disabled passes straight through", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		inner := &recordingHandler{}
		h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{Enabled: false}, zap.NewNop())

		event := newTestEvent("OrderPlaced")
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))
		assert.Equal(t, 2, inner.count())
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})
}
