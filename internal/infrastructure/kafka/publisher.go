package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// Publisher sends user lifecycle events to a Kafka topic through a
// synchronous producer. Messages are keyed by username so all events for
// one user land on the same partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewPublisher builds a sync producer that waits for full ISR acks.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return &Publisher{producer: producer, topic: topic, log: log}, nil
}

// NewPublisherWithProducer wraps an existing producer. Used by tests.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log}
}

// Publish sends the event and waits for the broker ack or the context
// deadline, whichever comes first. A deadline hit abandons the in-flight
// send; the producer goroutine finishes it in the background.
func (p *Publisher) Publish(ctx context.Context, key string, event domain.UserEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	done := make(chan error, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		if err == nil {
			p.log.Debug().
				Str("topic", p.topic).
				Str("key", key).
				Int32("partition", partition).
				Int64("offset", offset).
				Msg("event published")
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("publish event: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
		return nil
	}
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
