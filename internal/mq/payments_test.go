package mq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codr1/courtbook/internal/booking"
)

type applierFunc func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error)

func (f applierFunc) ApplyPayment(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
	return f(ctx, event)
}

func paymentBody(event, paymentID, bookingID, idemKey string, amount int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":%q,"version":1,"data":{"payment_id":%q,"booking_id":%q,"amount":%d,"currency":"USD","idempotency_key":%q}}`,
		event, paymentID, bookingID, amount, idemKey,
	))
}

func TestDecodePayment(t *testing.T) {
	event, err := decodePayment(KeyPaymentPaid, paymentBody("payment.paid", "pay-1", "bk-1", "", 1000))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Kind != booking.PaymentReceived || event.BookingID != "bk-1" || event.AmountCents != 1000 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.EventID != "pay-1:payment.paid" {
		t.Fatalf("event id = %q", event.EventID)
	}

	event, err = decodePayment("", paymentBody("payment.refunded", "pay-2", "bk-1", "idem-9", 500))
	if err != nil {
		t.Fatalf("decode from body event: %v", err)
	}
	if event.Kind != booking.PaymentRefund || event.EventID != "idem-9" {
		t.Fatalf("unexpected event: %+v", event)
	}

	// The routing key overrides the body's event name.
	event, err = decodePayment(KeyPaymentFailed, paymentBody("payment.paid", "pay-3", "bk-1", "", 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Kind != booking.PaymentFailed {
		t.Fatalf("kind = %s, want failed", event.Kind)
	}

	for name, body := range map[string][]byte{
		"not json":      []byte("{"),
		"unknown event": paymentBody("payment.disputed", "pay-4", "bk-1", "", 1),
		"no booking":    paymentBody("payment.paid", "pay-5", "", "", 1),
		"no payment id": paymentBody("payment.paid", "", "bk-1", "", 1),
	} {
		if _, err := decodePayment("", body); !errors.Is(err, errMalformed) {
			t.Fatalf("%s: expected errMalformed, got %v", name, err)
		}
	}
}

func TestHandlePaymentDispositions(t *testing.T) {
	ctx := context.Background()
	body := paymentBody("payment.paid", "pay-1", "bk-1", "", 1000)

	tests := []struct {
		name string
		err  error
		want Disposition
	}{
		{name: "applied", want: Ack},
		{name: "validation", err: &booking.ValidationError{Field: "amount_cents", Reason: "too much"}, want: Ack},
		{name: "invalid transition", err: &booking.InvalidTransitionError{BookingID: "bk-1"}, want: Ack},
		{name: "unknown booking", err: fmt.Errorf("load: %w", booking.ErrBookingNotFound), want: Ack},
		{name: "busy", err: &booking.BusyError{Key: "slot:1:2024-06-01"}, want: Retry},
		{name: "storage", err: fmt.Errorf("update: %w", booking.ErrStorageUnavailable), want: Retry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got booking.PaymentEvent
			applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
				got = event
				return booking.Booking{}, tt.err
			})
			if d := handlePayment(ctx, applier, KeyPaymentPaid, body); d != tt.want {
				t.Fatalf("disposition = %s, want %s", d, tt.want)
			}
			if got.BookingID != "bk-1" {
				t.Fatalf("applier not called with decoded event: %+v", got)
			}
		})
	}

	called := false
	applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		called = true
		return booking.Booking{}, nil
	})
	if d := handlePayment(ctx, applier, "", []byte("garbage")); d != Reject {
		t.Fatalf("malformed disposition = %s, want reject", d)
	}
	if called {
		t.Fatalf("applier must not see malformed messages")
	}
}

type settled struct {
	acked, nacked, requeue bool
}

type fakeAcknowledger struct {
	settled settled
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.settled.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.settled.nacked = true
	f.settled.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestPaymentConsumerSettlesDeliveries(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		body []byte
		err  error
		want settled
	}{
		{name: "ack", body: paymentBody("payment.paid", "p1", "bk-1", "", 100), want: settled{acked: true}},
		{name: "drop malformed", body: []byte("nope"), want: settled{nacked: true}},
		{name: "requeue busy", body: paymentBody("payment.paid", "p2", "bk-1", "", 100), err: &booking.BusyError{Key: "k"}, want: settled{nacked: true, requeue: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			pc := NewPaymentConsumer(applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
				return booking.Booking{}, tt.err
			}), nil)
			pc.process(ctx, amqp.Delivery{
				Acknowledger: ack,
				DeliveryTag:  1,
				RoutingKey:   KeyPaymentPaid,
				Body:         tt.body,
			})
			if ack.settled != tt.want {
				t.Fatalf("settled = %+v, want %+v", ack.settled, tt.want)
			}
		})
	}
}

func TestHandlePaymentRetriesWrappedBusy(t *testing.T) {
	busy := fmt.Errorf("apply: %w", &booking.BusyError{Key: "slot:1:2024-06-01", Err: errors.New("database is locked")})
	applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		return booking.Booking{}, busy
	})
	if d := handlePayment(context.Background(), applier, KeyPaymentPaid, paymentBody("payment.paid", "p", "b", "", 1)); d != Retry {
		t.Fatalf("disposition = %s, want retry", d)
	}
}
