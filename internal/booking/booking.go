package booking

import (
	"time"

	dbgen "github.com/codr1/courtbook/internal/db/generated"
)

// Booking is a flat view of one reservation row.
type Booking struct {
	ID                 string
	BranchID           int64
	CourtID            int64
	UserID             *int64
	GuestName          string
	Kind               Kind
	Date               string
	Interval           Interval
	StartsAt           time.Time
	EndsAt             time.Time
	Status             Status
	PaymentStatus      PaymentStatus
	TotalCents         int64
	DepositCents       int64
	PaidCents          int64
	IsRecurring        bool
	RecurringGroupID   string
	RecurringWeeks     int
	PaymentDeadline    time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ConfirmedAt        *time.Time
	CheckedInAt        *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	CancelledBy        string
}

func (b Booking) Key() SlotKey {
	return SlotKey{CourtID: b.CourtID, Date: b.Date}
}

func (b Booking) claim() Claim {
	return Claim{BookingID: b.ID, CourtID: b.CourtID, Date: b.Date, Interval: b.Interval}
}

func bookingFromRow(row dbgen.Booking) Booking {
	b := Booking{
		ID:                 row.ID,
		BranchID:           row.BranchID,
		CourtID:            row.CourtID,
		GuestName:          row.GuestName,
		Kind:               Kind(row.Kind),
		Date:               row.PlayDate,
		StartsAt:           row.StartsAt.UTC(),
		EndsAt:             row.EndsAt.UTC(),
		Status:             Status(row.Status),
		PaymentStatus:      PaymentStatus(row.PaymentStatus),
		TotalCents:         row.TotalCents,
		DepositCents:       row.DepositCents,
		PaidCents:          row.PaidCents,
		IsRecurring:        row.IsRecurring,
		RecurringGroupID:   row.RecurringGroupID.String,
		RecurringWeeks:     int(row.RecurringWeeks),
		PaymentDeadline:    row.PaymentDeadline.UTC(),
		Notes:              row.Notes,
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
		ConfirmedAt:        nullTime(row.ConfirmedAt.Time, row.ConfirmedAt.Valid),
		CheckedInAt:        nullTime(row.CheckedInAt.Time, row.CheckedInAt.Valid),
		StartedAt:          nullTime(row.StartedAt.Time, row.StartedAt.Valid),
		CompletedAt:        nullTime(row.CompletedAt.Time, row.CompletedAt.Valid),
		CancelledAt:        nullTime(row.CancelledAt.Time, row.CancelledAt.Valid),
		CancellationReason: row.CancellationReason.String,
		CancelledBy:        row.CancelledBy.String,
	}
	if row.UserID.Valid {
		userID := row.UserID.Int64
		b.UserID = &userID
	}
	// Stored values were validated on the way in.
	b.Interval, _ = NewInterval(row.StartTime, row.EndTime)
	return b
}

func nullTime(t time.Time, valid bool) *time.Time {
	if !valid {
		return nil
	}
	utc := t.UTC()
	return &utc
}
