package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStorageUnavailable wraps every persistence failure. The operation
	// that returned it wrote nothing.
	ErrStorageUnavailable = errors.New("booking storage unavailable")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCourtNotFound      = errors.New("court not found")

	// errStaleStatus means a compare-and-set status write found the booking
	// already moved on. The sweep skips these.
	errStaleStatus = errors.New("booking status changed concurrently")
	// errDuplicatePayment marks a payment event that was already applied.
	errDuplicatePayment = errors.New("payment event already processed")
)

// Rejection reasons carried by ConflictError and recorded in metrics.
const (
	ReasonCourtUnavailable = "court_unavailable"
	ReasonOutsideHours     = "outside_hours"
	ReasonOverlap          = "overlap"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid booking request: " + e.Reason
	}
	return fmt.Sprintf("invalid booking request: %s: %s", e.Field, e.Reason)
}

func validationError(field, reason string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(reason, args...)}
}

// ConflictError rejects a candidate interval. Conflicts lists the booking IDs
// whose held slots overlap it and is empty for hours or court status
// rejections.
type ConflictError struct {
	CourtID   int64
	Date      string
	Interval  Interval
	Reason    string
	Conflicts []string
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("court %d on %s %s rejected: %s", e.CourtID, e.Date, e.Interval, e.Reason)
	if len(e.Conflicts) > 0 {
		msg += " (conflicts: " + strings.Join(e.Conflicts, ", ") + ")"
	}
	return msg
}

// RecurrenceConflictError names the first occurrence of a recurring or
// multi-court request that could not be granted. Nothing from the request
// was persisted.
type RecurrenceConflictError struct {
	Date      string
	Week      int
	Conflict  *ConflictError
	Conflicts []string
}

func (e *RecurrenceConflictError) Error() string {
	return fmt.Sprintf("recurring booking rejected at week %d (%s): %v", e.Week, e.Date, e.Conflict)
}

func (e *RecurrenceConflictError) Unwrap() error {
	return e.Conflict
}

type InvalidTransitionError struct {
	BookingID string
	From      Status
	To        Status
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// BusyError means the slot lock or the database write lock could not be
// taken in time. Callers may retry with backoff.
type BusyError struct {
	Key string
	Err error
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("slot %s busy: %v", e.Key, e.Err)
}

func (e *BusyError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
