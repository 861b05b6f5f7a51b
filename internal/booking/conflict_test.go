package booking

import "testing"

func TestCheck(t *testing.T) {
	open := []Interval{{Start: 360, End: 720}, {Start: 720, End: 1320}}
	held := []Claim{
		{BookingID: "a", Interval: Interval{Start: 540, End: 600}},
		{BookingID: "b", Interval: Interval{Start: 660, End: 720}},
	}

	tests := []struct {
		name      string
		in        CheckInput
		accepted  bool
		reason    string
		conflicts []string
	}{
		{
			name:     "free slot",
			in:       CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Held: held, Candidate: Interval{Start: 600, End: 660}},
			accepted: true,
		},
		{
			name:   "court in maintenance",
			in:     CheckInput{CourtStatus: CourtMaintenance, OpenRanges: open, Candidate: Interval{Start: 600, End: 660}},
			reason: ReasonCourtUnavailable,
		},
		{
			name:   "before opening",
			in:     CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Candidate: Interval{Start: 330, End: 390}},
			reason: ReasonOutsideHours,
		},
		{
			name:   "closed day",
			in:     CheckInput{CourtStatus: CourtAvailable, Candidate: Interval{Start: 600, End: 660}},
			reason: ReasonOutsideHours,
		},
		{
			name:      "spans touching open ranges",
			in:        CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Held: held, Candidate: Interval{Start: 690, End: 750}},
			reason:    ReasonOverlap,
			conflicts: []string{"b"},
		},
		{
			name:     "spans touching open ranges when free",
			in:       CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Candidate: Interval{Start: 690, End: 750}},
			accepted: true,
		},
		{
			name:      "overlaps two",
			in:        CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Held: held, Candidate: Interval{Start: 570, End: 690}},
			reason:    ReasonOverlap,
			conflicts: []string{"a", "b"},
		},
		{
			name:     "excluded own claim",
			in:       CheckInput{CourtStatus: CourtAvailable, OpenRanges: open, Held: held, Candidate: Interval{Start: 570, End: 630}, Exclude: "a"},
			accepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.in)
			if got.Accepted != tt.accepted {
				t.Fatalf("accepted = %v, want %v (%+v)", got.Accepted, tt.accepted, got)
			}
			if got.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", got.Reason, tt.reason)
			}
			if len(got.Conflicts) != len(tt.conflicts) {
				t.Fatalf("conflicts = %v, want %v", got.Conflicts, tt.conflicts)
			}
			for i := range tt.conflicts {
				if got.Conflicts[i] != tt.conflicts[i] {
					t.Fatalf("conflicts = %v, want %v", got.Conflicts, tt.conflicts)
				}
			}
		})
	}
}

func TestStatusTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:    true,
		{StatusPending, StatusCancelled}:    true,
		{StatusPending, StatusExpired}:      true,
		{StatusConfirmed, StatusCheckedIn}:  true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusConfirmed, StatusNoShow}:     true,
		{StatusCheckedIn, StatusInProgress}: true,
		{StatusInProgress, StatusCompleted}: true,
	}
	all := []Status{
		StatusPending, StatusConfirmed, StatusCheckedIn, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow, StatusExpired,
	}
	for _, from := range all {
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != allowed[[2]Status{from, to}] {
				t.Fatalf("%s -> %s allowed = %v", from, to, got)
			}
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow, StatusExpired} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if StatusCompleted.releasesSlot() {
		t.Fatalf("COMPLETED retires its slot instead of releasing it")
	}
	if !StatusExpired.releasesSlot() || !StatusNoShow.releasesSlot() || !StatusCancelled.releasesSlot() {
		t.Fatalf("cancelled, expired and no-show must release their slot")
	}
	if StatusPending.IsActive() || !StatusInProgress.IsActive() {
		t.Fatalf("unexpected active set")
	}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		paid, deposit, total int64
		want                 PaymentStatus
	}{
		{paid: 0, deposit: 1000, total: 4000, want: PaymentUnpaid},
		{paid: 500, deposit: 1000, total: 4000, want: PaymentUnpaid},
		{paid: 1000, deposit: 1000, total: 4000, want: PaymentPartiallyPaid},
		{paid: 100, deposit: 0, total: 4000, want: PaymentPartiallyPaid},
		{paid: 4000, deposit: 1000, total: 4000, want: PaymentPaid},
		{paid: 0, deposit: 0, total: 0, want: PaymentPaid},
	}
	for _, tt := range tests {
		if got := paymentStatusFor(tt.paid, tt.deposit, tt.total); got != tt.want {
			t.Fatalf("paymentStatusFor(%d, %d, %d) = %s, want %s", tt.paid, tt.deposit, tt.total, got, tt.want)
		}
	}
}
