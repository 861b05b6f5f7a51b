package booking

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
	StatusExpired    Status = "EXPIRED"
)

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentRefunded      PaymentStatus = "REFUNDED"
)

type Kind string

const (
	KindSingle    Kind = "SINGLE"
	KindRecurring Kind = "RECURRING"
	KindEvent     Kind = "EVENT"
)

// transitions is the full lifecycle table. Anything not listed is rejected.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
	StatusExpired:    {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// IsActive reports whether the booking counts for overlap checks once paid.
func (s Status) IsActive() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusInProgress:
		return true
	}
	return false
}

// releasesSlot reports whether entering s gives the court time back.
// COMPLETED retires the claim instead so it stays in history.
func (s Status) releasesSlot() bool {
	return s.IsTerminal() && s != StatusCompleted
}

// CountsAsDeposit reports whether enough money arrived to hold a confirmation.
func (p PaymentStatus) CountsAsDeposit() bool {
	return p == PaymentPartiallyPaid || p == PaymentPaid
}
