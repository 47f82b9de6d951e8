// Package memory is the in-process event broker used by single-instance
// deployments and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/ports"
)

// DefaultBufferSize is the per-subscriber buffer used when NewBroker gets a
// non-positive size.
const DefaultBufferSize = 64

// ErrBrokerClosed is returned by Publish and Subscribe after Close.
var ErrBrokerClosed = errors.New("broker is closed")

// Broker fans events out to per-subscriber buffered channels. A subscriber
// whose buffer is full misses the event instead of blocking the publisher.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[notification.Channel]map[*subscription]struct{}
	bufferSize  int
	closed      bool
}

// NewBroker creates an open broker whose subscribers buffer up to
// bufferSize events each.
//
// Example:
//
//	broker := memory.NewBroker(memory.DefaultBufferSize)
//	defer broker.Close()
//	sub, _ := broker.Subscribe(ctx, notification.AdminChannel)
//	_ = broker.Publish(ctx, notification.AdminChannel, ev)
//	got := <-sub.Events()
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broker{
		subscribers: make(map[notification.Channel]map[*subscription]struct{}),
		bufferSize:  bufferSize,
	}
}

// Publish hands event to every current subscriber of channel without
// waiting for any of them.
func (b *Broker) Publish(_ context.Context, channel notification.Channel, event notification.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for sub := range b.subscribers[channel] {
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener that is removed on Close or when ctx ends.
func (b *Broker) Subscribe(ctx context.Context, channel notification.Channel) (ports.Subscription, error) {
	sub := &subscription{
		broker:  b,
		channel: channel,
		events:  make(chan notification.Event, b.bufferSize),
		done:    make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[*subscription]struct{})
	}
	b.subscribers[channel][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Subscribers reports how many listeners a channel currently has.
func (b *Broker) Subscribers(channel notification.Channel) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[channel])
}

// Close ends every subscription and rejects further use.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var subs []*subscription
	for _, set := range b.subscribers {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

func (b *Broker) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set := b.subscribers[sub.channel]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subscribers, sub.channel)
		}
	}
	close(sub.events)
}

type subscription struct {
	broker  *Broker
	channel notification.Channel
	events  chan notification.Event
	done    chan struct{}
	once    sync.Once
}

// Events is closed once the subscription ends.
func (s *subscription) Events() <-chan notification.Event {
	return s.events
}

// Close is idempotent.
func (s *subscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.broker.remove(s)
	})
	return nil
}
