package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/codr1/courtbook/internal/events"
)

const (
	eventTypeHeader   = "event_type"
	maxPaymentRetries = 5
	retryBaseDelay    = 200 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes booking events keyed by booking ID so one booking's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

var _ events.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.BookingID),
		Value:   value,
		Headers: []kafka.Header{{Key: eventTypeHeader, Value: []byte(event.Type)}},
		Time:    event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write %s for booking %s: %w", event.Type, event.BookingID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPaymentConsumer applies payment messages from a topic. Offsets are
// committed only after a message is acked or rejected.
type KafkaPaymentConsumer struct {
	reader     messageReader
	applier    PaymentApplier
	retryDelay time.Duration
}

func NewKafkaPaymentConsumer(brokers []string, topic, groupID string, applier PaymentApplier) *KafkaPaymentConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
	return &KafkaPaymentConsumer{reader: reader, applier: applier, retryDelay: retryBaseDelay}
}

// Run consumes until ctx is done. A message that still fails after retries
// stops the consumer without committing it, so it is redelivered on restart.
func (c *KafkaPaymentConsumer) Run(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("component", "kafka_payment_consumer").Logger()
	logger.Info().Msg("Payment consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch payment message: %w", err)
		}

		routingKey := headerValue(msg, eventTypeHeader)
		if err := c.settle(ctx, routingKey, msg); err != nil {
			if ctx.Err() != nil {
				// Shutting down; the uncommitted message is redelivered.
				return nil
			}
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit payment message offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *KafkaPaymentConsumer) settle(ctx context.Context, routingKey string, msg kafka.Message) error {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		if handlePayment(ctx, c.applier, routingKey, msg.Value) != Retry {
			return nil
		}
		if attempt >= maxPaymentRetries {
			return fmt.Errorf("payment message at offset %d failed after %d attempts", msg.Offset, attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (c *KafkaPaymentConsumer) Close() error {
	return c.reader.Close()
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
