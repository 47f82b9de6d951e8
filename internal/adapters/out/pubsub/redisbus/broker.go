// Package redisbus is an event broker on Redis PUB/SUB, letting several
// service instances share live notifications.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix     = "mealdelivery:"
	defaultBufferSize = 64
)

// Broker maps each notification channel to a prefixed Redis channel.
type Broker struct {
	client *redis.Client
	logger *slog.Logger
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string, logger *slog.Logger) (*Broker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewBroker(client, logger), nil
}

// NewBroker wraps an existing client. Close closes the client.
func NewBroker(client *redis.Client, logger *slog.Logger) *Broker {
	return &Broker{client: client, logger: logger.With("component", "redis-broker")}
}

// Publish sends event as JSON. Redis drops it when nobody listens.
func (b *Broker) Publish(ctx context.Context, channel notification.Channel, event notification.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.client.Publish(ctx, channelPrefix+string(channel), payload).Err()
}

// Subscribe returns once Redis has confirmed the subscription, so events
// published afterwards are not missed.
func (b *Broker) Subscribe(ctx context.Context, channel notification.Channel) (ports.Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channelPrefix+string(channel))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan notification.Event, defaultBufferSize),
		done:   make(chan struct{}),
	}
	go sub.pump(ctx, b.logger)
	return sub, nil
}

// Close closes the client, which ends every subscription.
func (b *Broker) Close() error {
	return b.client.Close()
}

type subscription struct {
	pubsub *redis.PubSub
	events chan notification.Event
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) pump(ctx context.Context, logger *slog.Logger) {
	defer close(s.events)

	messages := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var ev notification.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.WarnContext(ctx, "dropping malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case s.events <- ev:
			default:
			}
		}
	}
}

// Events is closed once the subscription ends.
func (s *subscription) Events() <-chan notification.Event {
	return s.events
}

// Close is idempotent.
func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
