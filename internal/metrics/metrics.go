package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_bookings_created_total",
			Help: "Bookings created, by kind",
		},
		[]string{"kind"},
	)

	BookingRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_booking_rejections_total",
			Help: "Booking requests rejected, by reason",
		},
		[]string{"reason"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_booking_transitions_total",
			Help: "Booking status transitions, by source and target status",
		},
		[]string{"from", "to"},
	)

	LockWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courtbook_slot_lock_wait_seconds",
			Help:    "Time spent waiting for court/date slot locks",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
	)

	SweepOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_sweep_outcomes_total",
			Help: "Expiry sweep results, by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordBookingCreated(kind string, count int) {
	BookingsCreatedTotal.WithLabelValues(kind).Add(float64(count))
}

func RecordRejection(reason string) {
	BookingRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordTransition(from, to string) {
	TransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordLockWait(seconds float64) {
	LockWaitSeconds.Observe(seconds)
}

func RecordSweepOutcome(outcome string, count int) {
	if count <= 0 {
		return
	}
	SweepOutcomesTotal.WithLabelValues(outcome).Add(float64(count))
}
