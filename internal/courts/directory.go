// Package courts reads courts, their branch settings and weekly opening hours
// from the database for the booking engine.
package courts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/booking"
	dbgen "github.com/codr1/courtbook/internal/db/generated"
)

// Directory implements booking.CourtDirectory over the generated queries.
type Directory struct {
	queries   *dbgen.Queries
	locations sync.Map // timezone name -> *time.Location
}

var _ booking.CourtDirectory = (*Directory)(nil)

func NewDirectory(queries *dbgen.Queries) (*Directory, error) {
	if queries == nil {
		return nil, errors.New("court directory requires queries")
	}
	return &Directory{queries: queries}, nil
}

func (d *Directory) Court(ctx context.Context, courtID int64) (booking.Court, error) {
	row, err := d.queries.GetCourtWithBranch(ctx, courtID)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Court{}, fmt.Errorf("%w: %d", booking.ErrCourtNotFound, courtID)
	}
	if err != nil {
		return booking.Court{}, fmt.Errorf("get court %d: %w", courtID, err)
	}
	loc, err := d.location(row.Timezone)
	if err != nil {
		log.Ctx(ctx).Warn().
			Str("component", "court_directory").
			Int64("court_id", courtID).
			Str("timezone", row.Timezone).
			Err(err).
			Msg("Unknown branch timezone, using UTC")
		loc = time.UTC
	}
	return booking.Court{
		ID:                row.ID,
		BranchID:          row.BranchID,
		Name:              row.Name,
		Status:            booking.CourtStatus(row.Status),
		DefaultPriceCents: row.DefaultPriceCents,
		Location:          loc,
		SlotMinutes:       int(row.SlotMinutes),
	}, nil
}

// WeeklySchedule returns the open ranges for one weekday. No rows means the
// court is closed that day.
func (d *Directory) WeeklySchedule(ctx context.Context, courtID int64, day time.Weekday) ([]booking.Interval, error) {
	rows, err := d.queries.ListCourtHours(ctx, dbgen.ListCourtHoursParams{
		CourtID:   courtID,
		DayOfWeek: int64(day),
	})
	if err != nil {
		return nil, fmt.Errorf("list court hours %d: %w", courtID, err)
	}
	ranges := make([]booking.Interval, 0, len(rows))
	for _, row := range rows {
		interval, err := booking.NewInterval(row.OpensAt, row.ClosesAt)
		if err != nil {
			return nil, fmt.Errorf("court %d hours row %d: %w", courtID, row.ID, err)
		}
		ranges = append(ranges, interval)
	}
	return ranges, nil
}

// SetStatus switches a court between AVAILABLE, MAINTENANCE and CLOSED.
// Existing bookings are untouched; only new requests see the change.
func (d *Directory) SetStatus(ctx context.Context, courtID int64, status booking.CourtStatus) error {
	switch status {
	case booking.CourtAvailable, booking.CourtMaintenance, booking.CourtClosed:
	default:
		return fmt.Errorf("invalid court status %q", status)
	}
	n, err := d.queries.UpdateCourtStatus(ctx, dbgen.UpdateCourtStatusParams{
		Status: string(status),
		ID:     courtID,
	})
	if err != nil {
		return fmt.Errorf("update court %d status: %w", courtID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", booking.ErrCourtNotFound, courtID)
	}
	log.Ctx(ctx).Info().
		Str("component", "court_directory").
		Int64("court_id", courtID).
		Str("status", string(status)).
		Msg("Court status updated")
	return nil
}

// ListByBranch returns the courts of a branch ordered by id.
func (d *Directory) ListByBranch(ctx context.Context, branchID int64) ([]booking.Court, error) {
	rows, err := d.queries.ListCourtsByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("list courts for branch %d: %w", branchID, err)
	}
	out := make([]booking.Court, 0, len(rows))
	for _, row := range rows {
		out = append(out, booking.Court{
			ID:                row.ID,
			BranchID:          row.BranchID,
			Name:              row.Name,
			Status:            booking.CourtStatus(row.Status),
			DefaultPriceCents: row.DefaultPriceCents,
		})
	}
	return out, nil
}

func (d *Directory) location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	if loc, ok := d.locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	d.locations.Store(name, loc)
	return loc, nil
}
