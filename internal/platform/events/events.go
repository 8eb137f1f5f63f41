// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain events for downstream consumers.

The notification service subscribes to the nominations topic and sends the
applicant and referee emails. Publishing is best effort: the API never fails a
request because an event could not be delivered.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// # Contracts

// Event is a single domain fact, keyed for partitioning.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(context context.Context, event Event) error
	Close() error
}

// # Kafka

// MessageWriter is the subset of [kafka.Writer] used by [KafkaPublisher].
type MessageWriter interface {
	WriteMessages(context context.Context, messages ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by [Event.Key].
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher builds a publisher backed by a kafka-go Writer.
// Keys are hashed so every event for one submission lands on the same partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish encodes the event and writes it synchronously.
func (publisher *KafkaPublisher) Publish(context context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event_encode_failed: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := publisher.writer.WriteMessages(context, message); err != nil {
		return fmt.Errorf("event_publish_failed: %w", err)
	}
	return nil
}

// Close flushes pending messages and releases broker connections.
func (publisher *KafkaPublisher) Close() error {
	return publisher.writer.Close()
}

// # No-op

// Nop discards every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
