// Package mq moves booking events and payment notifications over RabbitMQ
// and Kafka.
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/booking"
)

// Payment routing keys. The same names appear in the "event" field.
const (
	KeyPaymentPaid     = "payment.paid"
	KeyPaymentFailed   = "payment.failed"
	KeyPaymentRefunded = "payment.refunded"
)

// PaymentKeys are the bindings the payments queue subscribes to.
var PaymentKeys = []string{KeyPaymentPaid, KeyPaymentFailed, KeyPaymentRefunded}

// PaymentMessage is the provider's envelope.
type PaymentMessage struct {
	Event   string `json:"event"`
	Version int    `json:"version"`
	Data    struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		IdemKey   string `json:"idempotency_key"`
	} `json:"data"`
}

// PaymentApplier is satisfied by *booking.Engine.
type PaymentApplier interface {
	ApplyPayment(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error)
}

var errMalformed = errors.New("malformed payment message")

// decodePayment maps a message to a booking payment event. routingKey wins
// over the body's event field when set.
func decodePayment(routingKey string, body []byte) (booking.PaymentEvent, error) {
	var msg PaymentMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return booking.PaymentEvent{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	eventName := routingKey
	if eventName == "" {
		eventName = msg.Event
	}

	var kind booking.PaymentKind
	switch eventName {
	case KeyPaymentPaid:
		kind = booking.PaymentReceived
	case KeyPaymentFailed:
		kind = booking.PaymentFailed
	case KeyPaymentRefunded:
		kind = booking.PaymentRefund
	default:
		return booking.PaymentEvent{}, fmt.Errorf("%w: unknown event %q", errMalformed, eventName)
	}
	if msg.Data.BookingID == "" || msg.Data.PaymentID == "" {
		return booking.PaymentEvent{}, fmt.Errorf("%w: booking_id and payment_id are required", errMalformed)
	}

	eventID := msg.Data.IdemKey
	if eventID == "" {
		eventID = msg.Data.PaymentID + ":" + eventName
	}
	return booking.PaymentEvent{
		EventID:     eventID,
		BookingID:   msg.Data.BookingID,
		Kind:        kind,
		AmountCents: msg.Data.Amount,
	}, nil
}

// Disposition tells a transport what to do with a message after handling.
type Disposition int

const (
	Ack Disposition = iota
	// Reject drops a message that can never succeed.
	Reject
	// Retry keeps the message for another attempt.
	Retry
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Reject:
		return "reject"
	default:
		return "retry"
	}
}

// handlePayment decodes and applies one message. Business refusals are acked
// so they do not loop; storage and lock failures are retried.
func handlePayment(ctx context.Context, applier PaymentApplier, routingKey string, body []byte) Disposition {
	logger := log.Ctx(ctx).With().
		Str("component", "payment_consumer").
		Str("routing_key", routingKey).
		Logger()

	event, err := decodePayment(routingKey, body)
	if err != nil {
		logger.Warn().Err(err).Msg("Dropping malformed payment message")
		return Reject
	}
	logger = logger.With().Str("event_id", event.EventID).Str("booking_id", event.BookingID).Logger()

	_, err = applier.ApplyPayment(ctx, event)
	if err == nil {
		return Ack
	}

	var (
		validation *booking.ValidationError
		invalid    *booking.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid), errors.Is(err, booking.ErrBookingNotFound):
		logger.Warn().Err(err).Msg("Payment message refused by booking engine")
		return Ack
	default:
		logger.Error().Err(err).Msg("Payment message failed, will retry")
		return Retry
	}
}
