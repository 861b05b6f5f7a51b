package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtbook/internal/db/generated"
)

type PaymentKind string

const (
	PaymentReceived PaymentKind = "received"
	PaymentFailed   PaymentKind = "failed"
	PaymentRefund   PaymentKind = "refunded"
)

// PaymentEvent is an inbound notification from the payment provider. EventID
// is the provider's delivery key; replays with the same ID are ignored.
type PaymentEvent struct {
	EventID     string      `json:"event_id" validate:"required,max=200"`
	BookingID   string      `json:"booking_id" validate:"required"`
	Kind        PaymentKind `json:"kind" validate:"required,oneof=received failed refunded"`
	AmountCents int64       `json:"amount_cents" validate:"gte=0"`
}

// paymentStatusFor derives the payment axis from amounts. A payment below the
// deposit leaves the booking UNPAID.
func paymentStatusFor(paid, deposit, total int64) PaymentStatus {
	switch {
	case paid >= total:
		return PaymentPaid
	case paid > 0 && paid >= deposit:
		return PaymentPartiallyPaid
	default:
		return PaymentUnpaid
	}
}

// ApplyPayment records a payment event and applies it to the booking. A
// received payment that covers the deposit of a PENDING booking confirms it
// in the same transaction. Replayed events return the current booking.
func (e *Engine) ApplyPayment(ctx context.Context, event PaymentEvent) (Booking, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_payments").
		Str("event_id", event.EventID).
		Str("booking_id", event.BookingID).
		Str("kind", string(event.Kind)).
		Int64("amount_cents", event.AmountCents).
		Logger()

	if err := e.validateStruct(event); err != nil {
		return Booking{}, err
	}
	if event.Kind != PaymentFailed && event.AmountCents <= 0 {
		return Booking{}, &ValidationError{Field: "amount_cents", Reason: "must be positive"}
	}

	b, err := e.runTransition(ctx, event.BookingID, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		inserted, err := tx.Queries.InsertPaymentEvent(ctx, dbgen.InsertPaymentEventParams{
			EventID:     event.EventID,
			BookingID:   b.ID,
			Kind:        string(event.Kind),
			AmountCents: event.AmountCents,
			ProcessedAt: tx.now,
		})
		if err != nil {
			return nil, storageError("record payment event", err)
		}
		if inserted == 0 {
			return nil, errDuplicatePayment
		}

		paid := b.PaidCents
		var status PaymentStatus
		switch event.Kind {
		case PaymentFailed:
			logger.Warn().Str("status", string(b.Status)).Msg("Payment failed")
			return nil, nil
		case PaymentReceived:
			if b.PaymentStatus == PaymentRefunded {
				return nil, validationError("kind", "booking %s was already refunded", b.ID)
			}
			paid += event.AmountCents
			if paid > b.TotalCents {
				return nil, validationError("amount_cents", "payment would bring paid to %d above total %d", paid, b.TotalCents)
			}
			status = paymentStatusFor(paid, b.DepositCents, b.TotalCents)
		case PaymentRefund:
			if b.Status != StatusCancelled && b.Status != StatusExpired && b.Status != StatusNoShow {
				return nil, validationError("kind", "refund on %s booking", b.Status)
			}
			paid -= event.AmountCents
			if paid < 0 {
				paid = 0
			}
			status = PaymentRefunded
		}

		if _, err := tx.Queries.UpdateBookingPayment(ctx, dbgen.UpdateBookingPaymentParams{
			PaidCents:     paid,
			PaymentStatus: string(status),
			UpdatedAt:     tx.now,
			ID:            b.ID,
		}); err != nil {
			return nil, storageError("update booking payment", err)
		}
		b.PaidCents = paid
		b.PaymentStatus = status

		if b.Status == StatusPending && status.CountsAsDeposit() {
			if err := e.confirmGuard(ctx, tx, b); err != nil {
				// Money arrived but the slot is gone; keep the payment for a refund.
				logger.Warn().Err(err).Msg("Payment recorded without confirmation")
				return nil, nil
			}
			return []step{{to: StatusConfirmed, reason: "payment received"}}, nil
		}
		return nil, nil
	})
	if errors.Is(err, errDuplicatePayment) {
		logger.Debug().Msg("Duplicate payment event ignored")
		return e.Get(ctx, event.BookingID)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to apply payment event")
		return Booking{}, err
	}
	logger.Info().
		Str("status", string(b.Status)).
		Str("payment_status", string(b.PaymentStatus)).
		Int64("paid_cents", b.PaidCents).
		Msg("Payment applied")
	return b, nil
}

// PaymentRecord is one processed payment event.
type PaymentRecord struct {
	EventID     string
	Kind        PaymentKind
	AmountCents int64
	ProcessedAt time.Time
}

// PaymentHistory lists the payment events applied to a booking, oldest first.
// Events the engine refused are not recorded.
func (e *Engine) PaymentHistory(ctx context.Context, bookingID string) ([]PaymentRecord, error) {
	rows, err := e.db.Queries.ListPaymentEventsForBooking(ctx, bookingID)
	if err != nil {
		return nil, storageError("list payment events", err)
	}
	records := make([]PaymentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, PaymentRecord{
			EventID:     row.EventID,
			Kind:        PaymentKind(row.Kind),
			AmountCents: row.AmountCents,
			ProcessedAt: row.ProcessedAt,
		})
	}
	return records, nil
}
