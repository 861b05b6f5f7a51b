package booking

// Claim is a held slot on a court and date.
type Claim struct {
	BookingID string
	CourtID   int64
	Date      string
	Interval  Interval
}

// CheckInput is everything a placement decision depends on.
type CheckInput struct {
	CourtStatus CourtStatus
	OpenRanges  []Interval
	Held        []Claim
	Candidate   Interval
	// Exclude skips the claim of the booking being moved.
	Exclude string
}

type Decision struct {
	Accepted  bool
	Reason    string
	Conflicts []string
}

// Check decides whether a candidate interval may be granted. It has no side
// effects. Court status is checked first, then opening hours, then overlaps.
func Check(in CheckInput) Decision {
	if in.CourtStatus != CourtAvailable {
		return Decision{Reason: ReasonCourtUnavailable}
	}

	open := false
	for _, r := range mergeRanges(in.OpenRanges) {
		if in.Candidate.Within(r) {
			open = true
			break
		}
	}
	if !open {
		return Decision{Reason: ReasonOutsideHours}
	}

	var conflicts []string
	for _, claim := range in.Held {
		if in.Exclude != "" && claim.BookingID == in.Exclude {
			continue
		}
		if claim.Interval.Overlaps(in.Candidate) {
			conflicts = append(conflicts, claim.BookingID)
		}
	}
	if len(conflicts) > 0 {
		return Decision{Reason: ReasonOverlap, Conflicts: conflicts}
	}
	return Decision{Accepted: true}
}

func (d Decision) err(courtID int64, date string, candidate Interval) *ConflictError {
	if d.Accepted {
		return nil
	}
	return &ConflictError{
		CourtID:   courtID,
		Date:      date,
		Interval:  candidate,
		Reason:    d.Reason,
		Conflicts: d.Conflicts,
	}
}
