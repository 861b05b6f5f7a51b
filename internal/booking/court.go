package booking

import (
	"context"
	"time"
)

type CourtStatus string

const (
	CourtAvailable   CourtStatus = "AVAILABLE"
	CourtMaintenance CourtStatus = "MAINTENANCE"
	CourtClosed      CourtStatus = "CLOSED"
)

// Court is the read-only view of a court the engine needs to place bookings.
type Court struct {
	ID                int64
	BranchID          int64
	Name              string
	Status            CourtStatus
	DefaultPriceCents int64
	Location          *time.Location
	SlotMinutes       int
}

// CourtDirectory supplies court status and weekly opening hours. It returns
// ErrCourtNotFound for unknown courts.
type CourtDirectory interface {
	Court(ctx context.Context, courtID int64) (Court, error)
	WeeklySchedule(ctx context.Context, courtID int64, day time.Weekday) ([]Interval, error)
}
