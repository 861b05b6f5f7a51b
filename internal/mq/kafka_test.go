package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/codr1/courtbook/internal/booking"
	"github.com/codr1/courtbook/internal/events"
)

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader hands out queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func kafkaPayment(offset int64, key string, body []byte) kafka.Message {
	return kafka.Message{
		Offset:  offset,
		Value:   body,
		Headers: []kafka.Header{{Key: eventTypeHeader, Value: []byte(key)}},
	}
}

func TestKafkaPublisherKeysByBooking(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	occurred := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), events.BookingEvent{
		Type:       events.TypeConfirmed,
		BookingID:  "bk-1",
		CourtID:    3,
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "bk-1" {
		t.Fatalf("key = %q, want bk-1", msg.Key)
	}
	if headerValue(msg, eventTypeHeader) != string(events.TypeConfirmed) {
		t.Fatalf("missing event type header: %+v", msg.Headers)
	}
	var decoded events.BookingEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.CourtID != 3 || !decoded.OccurredAt.Equal(occurred) {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestKafkaConsumerCommitsAckedAndRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{
		kafkaPayment(10, KeyPaymentPaid, paymentBody("payment.paid", "p1", "bk-1", "", 100)),
		kafkaPayment(11, "", []byte("not json")),
		kafkaPayment(12, KeyPaymentRefunded, paymentBody("payment.refunded", "p2", "bk-2", "", 100)),
	}}
	var applied []string
	applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		applied = append(applied, event.BookingID)
		if event.BookingID == "bk-2" {
			return booking.Booking{}, &booking.ValidationError{Field: "kind", Reason: "refund on CONFIRMED booking"}
		}
		return booking.Booking{}, nil
	})
	c := &KafkaPaymentConsumer{reader: reader, applier: applier, retryDelay: time.Millisecond}

	if err := c.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reader.committed) != 3 || reader.committed[0] != 10 || reader.committed[2] != 12 {
		t.Fatalf("committed offsets = %v, want [10 11 12]", reader.committed)
	}
	if len(applied) != 2 {
		t.Fatalf("applied = %v, want two payments", applied)
	}
}

func TestKafkaConsumerRetriesThenStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		queue:  []kafka.Message{kafkaPayment(7, KeyPaymentPaid, paymentBody("payment.paid", "p1", "bk-1", "", 100))},
	}
	attempts := 0
	applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		attempts++
		if attempts < 3 {
			return booking.Booking{}, &booking.BusyError{Key: "slot:1:2024-06-01", Err: errors.New("lock wait")}
		}
		return booking.Booking{}, nil
	})
	c := &KafkaPaymentConsumer{reader: reader, applier: applier, retryDelay: time.Millisecond}
	if err := c.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if attempts != 3 || len(reader.committed) != 1 {
		t.Fatalf("attempts = %d committed = %v", attempts, reader.committed)
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	stuck := &fakeReader{
		cancel: cancel2,
		queue:  []kafka.Message{kafkaPayment(8, KeyPaymentPaid, paymentBody("payment.paid", "p2", "bk-1", "", 100))},
	}
	c.reader = stuck
	c.applier = applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		return booking.Booking{}, booking.ErrStorageUnavailable
	})
	if err := c.Run(ctx2); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if len(stuck.committed) != 0 {
		t.Fatalf("failed message must not be committed: %v", stuck.committed)
	}
}

func TestKafkaConsumerStopsCleanlyOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{
		kafkaPayment(3, KeyPaymentPaid, paymentBody("payment.paid", "p1", "bk-1", "", 100)),
	}}
	// The engine sees the cancelled context mid-apply.
	applier := applierFunc(func(ctx context.Context, event booking.PaymentEvent) (booking.Booking, error) {
		cancel()
		return booking.Booking{}, ctx.Err()
	})
	c := &KafkaPaymentConsumer{reader: reader, applier: applier, retryDelay: time.Hour}

	if err := c.Run(ctx); err != nil {
		t.Fatalf("run returned %v on shutdown, want nil", err)
	}
	if len(reader.committed) != 0 {
		t.Fatalf("interrupted message must not be committed: %v", reader.committed)
	}
}
