package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reuseday/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("routes events to interested handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		shipped := &recordingHandler{types: []string{"OrderShipped"}}
		placed := &recordingHandler{types: []string{"OrderPlaced"}}
		bus.Subscribe(shipped)
		bus.Subscribe(placed)

		err := bus.Publish(context.Background(), newEvent("OrderShipped"))

		require.NoError(t, err)
		assert.Len(t, shipped.received, 1)
		assert.Empty(t, placed.received)
	})

	t.Run("wildcard handler sees everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		err := bus.Publish(context.Background(), newEvent("OrderPlaced"), newEvent("OrderShipped"))

		require.NoError(t, err)
		assert.Len(t, all.received, 2)
	})

	t.Run("handler failure does not stop the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"OrderShipped"}, fail: errors.New("nope")}
		healthy := &recordingHandler{types: []string{"OrderShipped"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newEvent("OrderShipped"))

		require.NoError(t, err, "publish never surfaces handler errors")
		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"OrderShipped"}, panics: true}
		healthy := &recordingHandler{types: []string{"OrderShipped"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newEvent("OrderShipped"))
		})
		assert.Len(t, healthy.received, 1)
	})
}
