package redisbus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"mealdelivery/internal/adapters/out/pubsub/redisbus"
	"mealdelivery/internal/core/domain/model/notification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type BrokerTestSuite struct {
	suite.Suite
	container testcontainers.Container
	broker    *redisbus.Broker
}

func (s *BrokerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	endpoint, err := container.Endpoint(ctx, "redis")
	s.Require().NoError(err)

	s.broker, err = redisbus.Connect(ctx, endpoint, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
}

func (s *BrokerTestSuite) TearDownSuite() {
	if s.broker != nil {
		s.Require().NoError(s.broker.Close())
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *BrokerTestSuite) TestRoundTrip() {
	ctx := s.T().Context()
	sub, err := s.broker.Subscribe(ctx, "agent-1")
	s.Require().NoError(err)
	defer func() { _ = sub.Close() }()

	sent := notification.Event{
		ID:         "e-1",
		Kind:       notification.OrderAssigned,
		OrderID:    "o-1",
		Status:     "ready",
		Total:      decimal.RequireFromString("25.50"),
		AgentName:  "Dana",
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	s.Require().NoError(s.broker.Publish(ctx, "agent-1", sent))
	s.Require().NoError(s.broker.Publish(ctx, "agent-2", notification.Event{OrderID: "other"}))

	select {
	case got := <-sub.Events():
		s.Equal(sent.OrderID, got.OrderID)
		s.Equal(sent.Kind, got.Kind)
		s.True(sent.Total.Equal(got.Total))
		s.True(sent.OccurredAt.Equal(got.OccurredAt))
	case <-time.After(5 * time.Second):
		s.Fail("event not delivered")
	}

	select {
	case got := <-sub.Events():
		s.Failf("unexpected event", "%+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func (s *BrokerTestSuite) TestCloseEndsStream() {
	ctx := s.T().Context()
	sub, err := s.broker.Subscribe(ctx, "admin")
	s.Require().NoError(err)

	s.Require().NoError(sub.Close())

	s.Eventually(func() bool {
		_, open := <-sub.Events()
		return !open
	}, 5*time.Second, 50*time.Millisecond)
}

func TestBrokerTestSuite(t *testing.T) {
	suite.Run(t, new(BrokerTestSuite))
}
