package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "CheckoutSession", uuid.New())}
}

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu     sync.Mutex
	events []shared.DomainEvent
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panic {
		panic("handler blew up")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by event type and wildcard", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		placed := &recordingHandler{types: []string{"OrderPlaced"}}
		all := &recordingHandler{}
		bus.Subscribe(placed)
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced"), newTestEvent("CheckoutAbandoned")))

		assert.Equal(t, 1, placed.count())
		assert.Equal(t, 2, all.count())
	})

	t.Run("explicit types override handler types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"OrderPlaced"}}
		bus.Subscribe(h, "CheckoutAbandoned")

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced"), newTestEvent("CheckoutAbandoned")))
		assert.Equal(t, 1, h.count())
	})

	t.Run("handler errors and panics are logged not returned", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := &recordingHandler{types: []string{"OrderPlaced"}, err: errors.New("metrics down")}
		panicking := &recordingHandler{types: []string{"OrderPlaced"}, panic: true}
		after := &recordingHandler{types: []string{"OrderPlaced"}}
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(after)

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))

		assert.Equal(t, 1, after.count())
		assert.Equal(t, 1, recorded.FilterMessage("handler failed to process event").Len())
		assert.Equal(t, 1, recorded.FilterMessage("handler panicked").Len())
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"OrderPlaced"}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
		assert.Zero(t, h.count())
		assert.Empty(t, bus.registry.GetHandlers("OrderPlaced"))
	})

	t.Run("stopped bus drops events", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		h := &recordingHandler{}
		bus.Subscribe(h)
		require.NoError(t, bus.Stop(ctx))

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
		assert.Zero(t, h.count())
		assert.Equal(t, 1, recorded.FilterMessage("event bus stopped, dropping event").Len())

		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
		assert.Equal(t, 1, h.count())
	})
}

func TestInMemoryEventBus_Async(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	h := &recordingHandler{types: []string{"OrderPlaced"}}
	bus.Subscribe(h)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Equal(t, 10, h.count())
}
