package cmd

import (
	"io"
	"log/slog"
	"testing"

	"mealdelivery/internal/adapters/out/pubsub/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEventBroker_Memory(t *testing.T) {
	broker, err := NewEventBroker(t.Context(), Config{EventBroker: BrokerMemory}, discardLogger())

	require.NoError(t, err)
	assert.IsType(t, &memory.Broker{}, broker)
	assert.NoError(t, broker.Close())
}

func TestNewEventBroker_Unknown(t *testing.T) {
	_, err := NewEventBroker(t.Context(), Config{EventBroker: "smoke-signals"}, discardLogger())

	assert.ErrorIs(t, err, ErrUnknownEventBroker)
}

func TestNewEventPublisher_WithoutKafkaUsesBroker(t *testing.T) {
	broker := memory.NewBroker(1)

	publisher, closeSink, err := NewEventPublisher(Config{}, broker, discardLogger())

	require.NoError(t, err)
	assert.Same(t, broker, publisher)
	assert.NoError(t, closeSink())
}

func TestCreateHTTPRouter_RegistersRoutes(t *testing.T) {
	broker := memory.NewBroker(1)
	root := NewCompositionRoot(Config{JWTSecret: "secret"}, nil, broker, broker, discardLogger())

	e, err := root.CreateHTTPRouter()

	require.NoError(t, err)
	paths := make(map[string]bool)
	for _, r := range e.Routes() {
		paths[r.Method+" "+r.Path] = true
	}
	assert.True(t, paths["POST /api/v1/orders"])
	assert.True(t, paths["PATCH /api/v1/orders/:orderId/status"])
	assert.True(t, paths["GET /api/v1/notifications/stream"])
	assert.True(t, paths["GET /health"])
}
