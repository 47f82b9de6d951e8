// Package amqpbus is an event broker on a RabbitMQ topic exchange. Every
// subscription owns an exclusive auto-delete queue bound by channel name.
package amqpbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange is the topic exchange used when none is configured.
	DefaultExchange   = "order_events"
	defaultBufferSize = 64
)

// ErrConnectionClosed is returned by Publish once the connection is gone.
var ErrConnectionClosed = errors.New("rabbitmq connection is closed")

// Broker publishes on one shared AMQP channel and opens a separate channel
// per subscription.
type Broker struct {
	conn     *amqp.Connection
	exchange string
	logger   *slog.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects, opens the publishing channel and declares the exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Broker{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "amqp-broker"),
	}, nil
}

// Publish sends a transient JSON message routed by channel name. Messages
// with no bound queue are dropped by the exchange.
func (b *Broker) Publish(ctx context.Context, channel notification.Channel, event notification.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch == nil || b.ch.IsClosed() {
		return ErrConnectionClosed
	}

	return b.ch.PublishWithContext(ctx, b.exchange, string(channel), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    event.ID,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Kind),
		Body:         body,
	})
}

// Subscribe declares a server-named exclusive queue, binds it to channel
// and starts consuming with auto-ack. The queue disappears with the
// subscription.
func (b *Broker) Subscribe(ctx context.Context, channel notification.Channel) (ports.Subscription, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err = ch.QueueBind(q.Name, string(channel), b.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("bind queue to %s: %w", channel, err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}

	sub := &subscription{
		ch:     ch,
		events: make(chan notification.Event, defaultBufferSize),
		done:   make(chan struct{}),
	}
	go sub.pump(ctx, deliveries, b.logger)
	return sub, nil
}

// Close closes the connection, which ends every subscription.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

type subscription struct {
	ch     *amqp.Channel
	events chan notification.Event
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) pump(ctx context.Context, deliveries <-chan amqp.Delivery, logger *slog.Logger) {
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-s.done:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			var ev notification.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				logger.WarnContext(ctx, "dropping malformed event", "routing_key", d.RoutingKey, "error", err)
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
		if !s.ch.IsClosed() {
			err = s.ch.Close()
		}
	})
	return err
}
