// Package kafkasink mirrors published order events into a Kafka topic so
// downstream consumers get a durable log of what subscribers were told.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mealdelivery/internal/core/domain/model/notification"

	"github.com/IBM/sarama"
)

const channelHeader = "channel"

// Sink is a ports.EventPublisher that appends events to a Kafka topic.
type Sink struct {
	producer sarama.SyncProducer
	topic    string
}

// New connects a synchronous producer that waits for all in-sync replicas.
func New(brokers []string, topic string) (*Sink, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("start kafka producer: %w", err)
	}
	return NewWithProducer(producer, topic), nil
}

// NewWithProducer writes to topic through an existing producer. Tests pass
// a sarama mocks.SyncProducer here.
func NewWithProducer(producer sarama.SyncProducer, topic string) *Sink {
	return &Sink{producer: producer, topic: topic}
}

// Publish keys records by order so one order's events stay in one partition.
// The channel header carries the channel the event was first published on.
func (s *Sink) Publish(_ context.Context, channel notification.Channel, event notification.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(channelHeader), Value: []byte(channel)},
		},
		Timestamp: event.OccurredAt,
	}

	if _, _, err = s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send to %s: %w", s.topic, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (s *Sink) Close() error {
	return s.producer.Close()
}
