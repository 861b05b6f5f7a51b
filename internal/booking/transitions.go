package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtbook/internal/db/generated"
	"github.com/codr1/courtbook/internal/events"
	"github.com/codr1/courtbook/internal/metrics"
)

const (
	reasonPaymentDeadline = "payment deadline passed"
	reasonNoShow          = "no check-in before grace window closed"
	reasonNothingDue      = "no payment due"

	// A booking can be rescheduled between its lookup and its lock; the
	// transition follows it this many times before giving up.
	maxKeyRetries = 3
)

type CancelRequest struct {
	BookingID   string `json:"booking_id" validate:"required"`
	Reason      string `json:"reason,omitempty" validate:"max=500"`
	CancelledBy string `json:"cancelled_by,omitempty" validate:"max=120"`
}

type step struct {
	to     Status
	reason string
	by     string
}

type change struct {
	from   Status
	to     Status
	reason string
}

// planFunc inspects the locked, freshly read booking and returns the steps to
// apply, or an InvalidTransitionError when a guard refuses.
type planFunc func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error)

func allowed(b Booking, to Status) error {
	if !b.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: to}
	}
	return nil
}

func refused(b Booking, to Status, reason string, args ...any) error {
	return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: to, Reason: fmt.Sprintf(reason, args...)}
}

// runTransition is the single locked entry point for status changes. Users
// and the sweep both go through it, so a booking's status only ever moves
// under its slot lock with a compare-and-set write.
func (e *Engine) runTransition(ctx context.Context, id string, plan planFunc) (Booking, error) {
	current, err := e.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	for attempt := 0; attempt < maxKeyRetries; attempt++ {
		var (
			result   Booking
			changes  []change
			keyMoved bool
		)
		err := e.ledger.Atomically(ctx, []SlotKey{current.Key()}, func(tx *LedgerTx) error {
			row, err := tx.Queries.GetBooking(ctx, id)
			if err != nil {
				return storageError("reload booking", err)
			}
			b := bookingFromRow(row)
			if b.Key() != current.Key() {
				current = b
				keyMoved = true
				return nil
			}

			steps, err := plan(ctx, tx, b)
			if err != nil {
				return err
			}
			for _, s := range steps {
				if err := e.applyStep(ctx, tx, b, s); err != nil {
					return err
				}
				changes = append(changes, change{from: b.Status, to: s.to, reason: s.reason})
				b.Status = s.to
			}

			row, err = tx.Queries.GetBooking(ctx, id)
			if err != nil {
				return storageError("reload booking", err)
			}
			result = bookingFromRow(row)
			return nil
		})
		if err != nil {
			return Booking{}, err
		}
		if keyMoved {
			continue
		}
		e.afterCommit(ctx, result, changes)
		return result, nil
	}
	return Booking{}, fmt.Errorf("transition booking %s: %w", id, errStaleStatus)
}

func (e *Engine) applyStep(ctx context.Context, tx *LedgerTx, b Booking, s step) error {
	if err := allowed(b, s.to); err != nil {
		return err
	}

	stamp := sql.NullTime{Time: tx.now, Valid: true}
	params := dbgen.UpdateBookingStatusParams{
		Status:      string(s.to),
		UpdatedAt:   tx.now,
		ID:          b.ID,
		PriorStatus: string(b.Status),
	}
	switch s.to {
	case StatusConfirmed:
		params.ConfirmedAt = stamp
	case StatusCheckedIn:
		params.CheckedInAt = stamp
	case StatusInProgress:
		params.StartedAt = stamp
	case StatusCompleted:
		params.CompletedAt = stamp
	case StatusCancelled:
		params.CancelledAt = stamp
		params.CancellationReason = nullString(s.reason)
		params.CancelledBy = nullString(s.by)
	case StatusExpired, StatusNoShow:
		params.CancellationReason = nullString(s.reason)
	}

	n, err := tx.Queries.UpdateBookingStatus(ctx, params)
	if err != nil {
		return storageError("update booking status", err)
	}
	if n == 0 {
		return fmt.Errorf("booking %s %s->%s: %w", b.ID, b.Status, s.to, errStaleStatus)
	}

	switch {
	case s.to.releasesSlot():
		return tx.Release(ctx, b.ID)
	case s.to == StatusCompleted:
		return tx.Retire(ctx, b.ID)
	}
	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

var eventTypes = map[Status]events.Type{
	StatusConfirmed: events.TypeConfirmed,
	StatusCancelled: events.TypeCancelled,
	StatusExpired:   events.TypeExpired,
	StatusNoShow:    events.TypeNoShow,
	StatusCompleted: events.TypeCompleted,
}

// afterCommit records metrics and publishes events. Publishing never fails
// the transition that already committed.
func (e *Engine) afterCommit(ctx context.Context, b Booking, changes []change) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_engine").
		Str("booking_id", b.ID).
		Int64("court_id", b.CourtID).
		Str("date", b.Date).
		Logger()

	for _, c := range changes {
		metrics.RecordTransition(string(c.from), string(c.to))
		logger.Info().
			Str("prior_status", string(c.from)).
			Str("new_status", string(c.to)).
			Str("reason", c.reason).
			Msg("Booking status changed")

		eventType, ok := eventTypes[c.to]
		if !ok || e.publisher == nil {
			continue
		}
		event := events.BookingEvent{
			Type:             eventType,
			BookingID:        b.ID,
			CourtID:          b.CourtID,
			Date:             b.Date,
			StartTime:        b.Interval.Start.String(),
			EndTime:          b.Interval.End.String(),
			RecurringGroupID: b.RecurringGroupID,
			PriorStatus:      string(c.from),
			NewStatus:        string(c.to),
			Reason:           c.reason,
			OccurredAt:       b.UpdatedAt,
		}
		if err := e.publisher.Publish(ctx, event); err != nil {
			logger.Error().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish booking event")
		}
	}
}

// Confirm moves a PENDING booking to CONFIRMED once a deposit or full
// payment is recorded and its slot is still held.
func (e *Engine) Confirm(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := e.confirmGuard(ctx, tx, b); err != nil {
			return nil, err
		}
		return []step{{to: StatusConfirmed}}, nil
	})
}

func (e *Engine) confirmGuard(ctx context.Context, tx *LedgerTx, b Booking) error {
	if err := allowed(b, StatusConfirmed); err != nil {
		return err
	}
	if !b.PaymentStatus.CountsAsDeposit() {
		return refused(b, StatusConfirmed, "payment status is %s", b.PaymentStatus)
	}
	held, err := tx.IsHeld(ctx, b.ID)
	if err != nil {
		return err
	}
	if !held {
		return refused(b, StatusConfirmed, "slot is no longer held")
	}
	return nil
}

// Cancel is a user or staff cancellation of a PENDING or CONFIRMED booking.
// It frees the slot.
func (e *Engine) Cancel(ctx context.Context, req CancelRequest) (Booking, error) {
	if err := e.validateStruct(req); err != nil {
		return Booking{}, err
	}
	return e.runTransition(ctx, req.BookingID, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusCancelled); err != nil {
			return nil, err
		}
		return []step{{to: StatusCancelled, reason: req.Reason, by: req.CancelledBy}}, nil
	})
}

// CancelGroup cancels every sibling of a group that is still cancellable and
// has not started. Siblings are cancelled one by one; those already past
// cancellation are left alone.
func (e *Engine) CancelGroup(ctx context.Context, groupID, reason, cancelledBy string) ([]Booking, error) {
	if groupID == "" {
		return nil, &ValidationError{Field: "recurring_group_id", Reason: "required"}
	}
	siblings, err := e.ListGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, fmt.Errorf("%w: group %s", ErrBookingNotFound, groupID)
	}

	now := e.now()
	var (
		cancelled []Booking
		errs      []error
	)
	for _, sibling := range siblings {
		if !sibling.Status.CanTransitionTo(StatusCancelled) || !sibling.StartsAt.After(now) {
			continue
		}
		b, err := e.Cancel(ctx, CancelRequest{BookingID: sibling.ID, Reason: reason, CancelledBy: cancelledBy})
		var invalid *InvalidTransitionError
		if errors.As(err, &invalid) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cancelled = append(cancelled, b)
	}
	return cancelled, errors.Join(errs...)
}

// CheckIn is allowed from CheckInOpensBefore ahead of the start until the
// no-show grace window closes.
func (e *Engine) CheckIn(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusCheckedIn); err != nil {
			return nil, err
		}
		opens := b.StartsAt.Add(-e.cfg.CheckInOpensBefore)
		closes := b.StartsAt.Add(e.cfg.NoShowGrace)
		if tx.now.Before(opens) {
			return nil, refused(b, StatusCheckedIn, "check-in opens at %s", opens.Format(time.RFC3339))
		}
		if tx.now.After(closes) {
			return nil, refused(b, StatusCheckedIn, "check-in closed at %s", closes.Format(time.RFC3339))
		}
		return []step{{to: StatusCheckedIn}}, nil
	})
}

// StartSession is the staff action for CHECKED_IN -> IN_PROGRESS.
func (e *Engine) StartSession(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusInProgress); err != nil {
			return nil, err
		}
		return []step{{to: StatusInProgress}}, nil
	})
}

// CheckOut completes a session. A CHECKED_IN booking passes through
// IN_PROGRESS in the same transaction.
func (e *Engine) CheckOut(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if b.Status == StatusCheckedIn {
			return []step{{to: StatusInProgress}, {to: StatusCompleted}}, nil
		}
		if err := allowed(b, StatusCompleted); err != nil {
			return nil, err
		}
		return []step{{to: StatusCompleted}}, nil
	})
}

// MarkNoShow releases a CONFIRMED booking nobody checked in for once the
// grace window after its start has passed.
func (e *Engine) MarkNoShow(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, e.noShowPlan)
}

func (e *Engine) noShowPlan(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
	if err := allowed(b, StatusNoShow); err != nil {
		return nil, err
	}
	if b.CheckedInAt != nil {
		return nil, refused(b, StatusNoShow, "booking was checked in")
	}
	cutoff := b.StartsAt.Add(e.cfg.NoShowGrace)
	if !tx.now.After(cutoff) {
		return nil, refused(b, StatusNoShow, "grace window open until %s", cutoff.Format(time.RFC3339))
	}
	return []step{{to: StatusNoShow, reason: reasonNoShow}}, nil
}

// expire is only driven by the sweep.
func (e *Engine) expire(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusExpired); err != nil {
			return nil, err
		}
		if b.PaymentStatus.CountsAsDeposit() {
			return nil, refused(b, StatusExpired, "payment status is %s", b.PaymentStatus)
		}
		if !tx.now.After(b.PaymentDeadline) {
			return nil, refused(b, StatusExpired, "payment deadline %s not reached", b.PaymentDeadline.Format(time.RFC3339))
		}
		return []step{{to: StatusExpired, reason: reasonPaymentDeadline}}, nil
	})
}

// startDue and completeDue are the time-driven session steps used by the
// sweep.
func (e *Engine) startDue(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusInProgress); err != nil {
			return nil, err
		}
		if tx.now.Before(b.StartsAt) {
			return nil, refused(b, StatusInProgress, "session starts at %s", b.StartsAt.Format(time.RFC3339))
		}
		return []step{{to: StatusInProgress}}, nil
	})
}

func (e *Engine) completeDue(ctx context.Context, id string) (Booking, error) {
	return e.runTransition(ctx, id, func(ctx context.Context, tx *LedgerTx, b Booking) ([]step, error) {
		if err := allowed(b, StatusCompleted); err != nil {
			return nil, err
		}
		if tx.now.Before(b.EndsAt) {
			return nil, refused(b, StatusCompleted, "session ends at %s", b.EndsAt.Format(time.RFC3339))
		}
		return []step{{to: StatusCompleted}}, nil
	})
}
