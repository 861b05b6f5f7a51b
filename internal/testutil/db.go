package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/codr1/courtbook/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedBranch inserts a branch and returns its id.
func SeedBranch(t *testing.T, database *db.DB, timezone string, slotMinutes int) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		"INSERT INTO branches (name, timezone, slot_minutes) VALUES (?, ?, ?)",
		"Main Branch", timezone, slotMinutes,
	)
	if err != nil {
		t.Fatalf("insert branch: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("branch id: %v", err)
	}
	return id
}

// SeedCourt inserts an AVAILABLE court with no opening hours.
func SeedCourt(t *testing.T, database *db.DB, branchID int64, name string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		"INSERT INTO courts (branch_id, name, default_price_cents) VALUES (?, ?, ?)",
		branchID, name, 0,
	)
	if err != nil {
		t.Fatalf("insert court: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("court id: %v", err)
	}
	return id
}

// SeedHours opens a court between opensAt and closesAt on one weekday (0 is Sunday).
func SeedHours(t *testing.T, database *db.DB, courtID int64, dayOfWeek int, opensAt, closesAt string) {
	t.Helper()

	_, err := database.ExecContext(context.Background(),
		"INSERT INTO court_hours (court_id, day_of_week, opens_at, closes_at) VALUES (?, ?, ?, ?)",
		courtID, dayOfWeek, opensAt, closesAt,
	)
	if err != nil {
		t.Fatalf("insert court hours: %v", err)
	}
}

// SeedOpenWeek opens a court between opensAt and closesAt every day.
func SeedOpenWeek(t *testing.T, database *db.DB, courtID int64, opensAt, closesAt string) {
	t.Helper()

	for day := 0; day < 7; day++ {
		SeedHours(t, database, courtID, day, opensAt, closesAt)
	}
}
