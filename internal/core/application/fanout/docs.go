// Package fanout delivers order events to live subscribers.
//
// Notifier is called by command handlers after commit and decides which
// channels hear about a change. Hub serves the subscribing side. Both sit
// on top of a ports.EventBroker, which may be in-process or backed by Redis
// or RabbitMQ, optionally mirrored to Kafka through MultiPublisher.
package fanout
