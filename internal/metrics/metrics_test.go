package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBookingCreated(t *testing.T) {
	BookingsCreatedTotal.Reset()

	RecordBookingCreated("RECURRING", 4)
	RecordBookingCreated("SINGLE", 1)

	if got := testutil.ToFloat64(BookingsCreatedTotal.WithLabelValues("RECURRING")); got != 4 {
		t.Fatalf("recurring count: %v", got)
	}
	if got := testutil.ToFloat64(BookingsCreatedTotal.WithLabelValues("SINGLE")); got != 1 {
		t.Fatalf("single count: %v", got)
	}
}

func TestRecordTransitionAndRejection(t *testing.T) {
	TransitionsTotal.Reset()
	BookingRejectionsTotal.Reset()

	RecordTransition("PENDING", "EXPIRED")
	RecordTransition("PENDING", "EXPIRED")
	RecordRejection("overlap")

	if got := testutil.ToFloat64(TransitionsTotal.WithLabelValues("PENDING", "EXPIRED")); got != 2 {
		t.Fatalf("transition count: %v", got)
	}
	if got := testutil.ToFloat64(BookingRejectionsTotal.WithLabelValues("overlap")); got != 1 {
		t.Fatalf("rejection count: %v", got)
	}
}

func TestRecordSweepOutcomeIgnoresZero(t *testing.T) {
	SweepOutcomesTotal.Reset()

	RecordSweepOutcome("expired", 0)
	RecordSweepOutcome("no_show", 2)

	if got := testutil.CollectAndCount(SweepOutcomesTotal); got != 1 {
		t.Fatalf("expected one series, got %d", got)
	}
}
