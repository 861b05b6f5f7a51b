package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtbook/internal/db/generated"
	"github.com/codr1/courtbook/internal/metrics"
)

// SweepResult counts what one sweep did.
type SweepResult struct {
	Expired   int
	NoShows   int
	Started   int
	Completed int
	Skipped   int
	Failed    int
}

// Sweep drives time-based transitions: unpaid PENDING bookings past their
// deadline expire, CONFIRMED bookings nobody checked in for become NO_SHOW,
// and checked-in sessions advance to IN_PROGRESS and COMPLETED. Bookings
// that changed between the scan and the write are skipped.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	now := e.now()
	limit := int64(e.cfg.SweepBatchSize)
	logger := log.Ctx(ctx).With().
		Str("component", "booking_sweep").
		Time("now", now).
		Logger()

	var (
		result SweepResult
		errs   []error
	)
	run := func(outcome string, rows []dbgen.Booking, apply func(context.Context, string) (Booking, error), counter *int) {
		for _, row := range rows {
			bookingLogger := logger.With().Str("booking_id", row.ID).Str("status", row.Status).Logger()
			_, err := apply(bookingLogger.WithContext(ctx), row.ID)
			switch {
			case err == nil:
				*counter++
				bookingLogger.Info().Str("decision", outcome).Msg("Sweep transitioned booking")
			case isSweepSkip(err):
				result.Skipped++
				bookingLogger.Debug().Err(err).Str("decision", "skipped").Msg("Booking changed before sweep write")
			default:
				result.Failed++
				errs = append(errs, err)
				bookingLogger.Error().Err(err).Str("decision", "failed").Msg("Sweep transition failed")
			}
		}
	}

	expired, err := e.db.Queries.ListExpiredPendingBookings(ctx, dbgen.ListExpiredPendingBookingsParams{Now: now, Limit: limit})
	if err != nil {
		return result, storageError("list expired bookings", err)
	}
	run("expired", expired, e.expire, &result.Expired)

	noShows, err := e.db.Queries.ListNoShowCandidates(ctx, dbgen.ListNoShowCandidatesParams{
		Cutoff: now.Add(-e.cfg.NoShowGrace),
		Limit:  limit,
	})
	if err != nil {
		return result, storageError("list no-show candidates", err)
	}
	run("no_show", noShows, e.MarkNoShow, &result.NoShows)

	started, err := e.db.Queries.ListBookingsStartedBefore(ctx, dbgen.ListBookingsStartedBeforeParams{
		Status: string(StatusCheckedIn),
		Before: now,
		Limit:  limit,
	})
	if err != nil {
		return result, storageError("list started sessions", err)
	}
	run("started", started, e.startDue, &result.Started)

	ended, err := e.db.Queries.ListBookingsEndedBefore(ctx, dbgen.ListBookingsEndedBeforeParams{
		Status: string(StatusInProgress),
		Before: now,
		Limit:  limit,
	})
	if err != nil {
		return result, storageError("list ended sessions", err)
	}
	run("completed", ended, e.completeDue, &result.Completed)

	metrics.RecordSweepOutcome("expired", result.Expired)
	metrics.RecordSweepOutcome("no_show", result.NoShows)
	metrics.RecordSweepOutcome("started", result.Started)
	metrics.RecordSweepOutcome("completed", result.Completed)
	metrics.RecordSweepOutcome("skipped", result.Skipped)
	metrics.RecordSweepOutcome("failed", result.Failed)

	logger.Info().
		Int("expired", result.Expired).
		Int("no_show", result.NoShows).
		Int("started", result.Started).
		Int("completed", result.Completed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Booking sweep finished")

	return result, errors.Join(errs...)
}

func isSweepSkip(err error) bool {
	if errors.Is(err, errStaleStatus) {
		return true
	}
	var invalid *InvalidTransitionError
	return errors.As(err, &invalid)
}
