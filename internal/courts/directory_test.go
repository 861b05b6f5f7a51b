package courts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtbook/internal/booking"
	"github.com/codr1/courtbook/internal/testutil"
)

func TestDirectoryCourtAndSchedule(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	branchID := testutil.SeedBranch(t, database, "America/New_York", 60)
	courtID := testutil.SeedCourt(t, database, branchID, "Court 1")
	testutil.SeedHours(t, database, courtID, int(time.Saturday), "14:00", "22:00")
	testutil.SeedHours(t, database, courtID, int(time.Saturday), "06:00", "12:00")

	dir, err := NewDirectory(database.Queries)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	court, err := dir.Court(ctx, courtID)
	if err != nil {
		t.Fatalf("court: %v", err)
	}
	if court.Status != booking.CourtAvailable {
		t.Fatalf("expected AVAILABLE, got %s", court.Status)
	}
	if court.SlotMinutes != 60 {
		t.Fatalf("expected slot minutes 60, got %d", court.SlotMinutes)
	}
	if court.Location.String() != "America/New_York" {
		t.Fatalf("expected New York location, got %s", court.Location)
	}

	hours, err := dir.WeeklySchedule(ctx, courtID, time.Saturday)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(hours) != 2 || hours[0].Start.String() != "06:00" || hours[1].End.String() != "22:00" {
		t.Fatalf("unexpected hours: %v", hours)
	}

	closed, err := dir.WeeklySchedule(ctx, courtID, time.Monday)
	if err != nil {
		t.Fatalf("schedule monday: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("expected closed monday, got %v", closed)
	}
}

func TestDirectoryCourtNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	dir, err := NewDirectory(database.Queries)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	_, err = dir.Court(context.Background(), 999)
	if !errors.Is(err, booking.ErrCourtNotFound) {
		t.Fatalf("expected ErrCourtNotFound, got %v", err)
	}
	if err := dir.SetStatus(context.Background(), 999, booking.CourtClosed); !errors.Is(err, booking.ErrCourtNotFound) {
		t.Fatalf("expected ErrCourtNotFound from SetStatus, got %v", err)
	}
}

func TestDirectorySetStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	branchID := testutil.SeedBranch(t, database, "UTC", 30)
	courtID := testutil.SeedCourt(t, database, branchID, "Court 1")

	dir, err := NewDirectory(database.Queries)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	if err := dir.SetStatus(ctx, courtID, "BROKEN"); err == nil {
		t.Fatalf("expected invalid status error")
	}
	if err := dir.SetStatus(ctx, courtID, booking.CourtMaintenance); err != nil {
		t.Fatalf("set status: %v", err)
	}

	court, err := dir.Court(ctx, courtID)
	if err != nil {
		t.Fatalf("court: %v", err)
	}
	if court.Status != booking.CourtMaintenance {
		t.Fatalf("expected MAINTENANCE, got %s", court.Status)
	}

	list, err := dir.ListByBranch(ctx, branchID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != courtID {
		t.Fatalf("unexpected courts: %+v", list)
	}
}
