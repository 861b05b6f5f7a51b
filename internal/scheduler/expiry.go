package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/booking"
)

const (
	expiryJobName       = "booking_expiry_sweep"
	defaultSweepTimeout = 2 * time.Minute
)

// Sweeper runs one pass of time-driven booking transitions.
type Sweeper interface {
	Sweep(ctx context.Context) (booking.SweepResult, error)
}

// RegisterExpiryJob schedules the booking sweep on the singleton scheduler.
func RegisterExpiryJob(sweeper Sweeper, cronExpr string, timeout time.Duration) error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.RegisterExpiryJob(sweeper, cronExpr, timeout)
}

// RegisterExpiryJob schedules the booking sweep. Runs never overlap; a run
// that is still going when the next tick fires makes that tick wait.
func (s *Service) RegisterExpiryJob(sweeper Sweeper, cronExpr string, timeout time.Duration) error {
	if sweeper == nil {
		return fmt.Errorf("expiry job requires a sweeper")
	}
	if timeout <= 0 {
		timeout = defaultSweepTimeout
	}

	jobLogger := log.With().
		Str("component", "booking_expiry_job").
		Str("job_name", expiryJobName).
		Str("cron", cronExpr).
		Logger()

	_, err := s.AddJob(expiryJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		runSweep(jobLogger.WithContext(ctx), sweeper, &jobLogger)
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add booking expiry job: %w", err)
	}

	jobLogger.Info().Msg("Booking expiry job registered")
	return nil
}

func runSweep(ctx context.Context, sweeper Sweeper, logger *zerolog.Logger) booking.SweepResult {
	result, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Int("failed", result.Failed).
			Msg("Booking sweep finished with errors")
		return result
	}
	if result.Expired+result.NoShows+result.Started+result.Completed > 0 {
		logger.Info().
			Int("expired", result.Expired).
			Int("no_show", result.NoShows).
			Int("started", result.Started).
			Int("completed", result.Completed).
			Int("skipped", result.Skipped).
			Msg("Booking sweep applied transitions")
	}
	return result
}
