package booking

import (
	"math/rand"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Minute
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "24:00", want: 1440},
		{in: "24:30", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseClock(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Fatalf("round trip %q -> %q", tt.in, got.String())
		}
	}
}

func TestIntervalOverlapIsHalfOpen(t *testing.T) {
	nineToTen := Interval{Start: 540, End: 600}
	if nineToTen.Overlaps(Interval{Start: 600, End: 660}) {
		t.Fatalf("adjacent intervals must not overlap")
	}
	if !nineToTen.Overlaps(Interval{Start: 570, End: 630}) {
		t.Fatalf("09:30-10:30 must overlap 09:00-10:00")
	}
	if !nineToTen.Overlaps(Interval{Start: 555, End: 585}) {
		t.Fatalf("contained interval must overlap")
	}
}

// Overlaps must agree with a minute-by-minute occupancy comparison.
func TestIntervalOverlapMatchesOccupancy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomInterval := func() Interval {
		start := Minute(rng.Intn(minutesPerDay))
		end := start + Minute(1+rng.Intn(minutesPerDay-int(start)))
		return Interval{Start: start, End: end}
	}
	for i := 0; i < 2000; i++ {
		a, b := randomInterval(), randomInterval()
		shared := false
		for m := a.Start; m < a.End; m++ {
			if m >= b.Start && m < b.End {
				shared = true
				break
			}
		}
		if a.Overlaps(b) != shared {
			t.Fatalf("Overlaps(%s, %s) = %v, occupancy says %v", a, b, a.Overlaps(b), shared)
		}
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("Overlaps not symmetric for %s and %s", a, b)
		}
	}
}

func TestMergeRanges(t *testing.T) {
	merged := mergeRanges([]Interval{
		{Start: 720, End: 840},
		{Start: 360, End: 600},
		{Start: 600, End: 660},
		{Start: 800, End: 900},
		{Start: 1000, End: 900},
	})
	want := []Interval{{Start: 360, End: 660}, {Start: 720, End: 900}}
	if len(merged) != len(want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("merged = %v, want %v", merged, want)
		}
	}
}

func TestInstantUsesBranchTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	day, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	got := instant(day, 540, loc)
	want := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("instant = %s, want %s", got, want)
	}
}

func TestExpand(t *testing.T) {
	occ, err := Expand("2024-06-01", nil, 4)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"2024-06-01", "2024-06-08", "2024-06-15", "2024-06-22"}
	if len(occ) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(occ))
	}
	for i, date := range want {
		if occ[i].Date != date || occ[i].Week != i+1 {
			t.Fatalf("occurrence %d = %+v, want week %d on %s", i, occ[i], i+1, date)
		}
	}

	saturday := time.Saturday
	if _, err := Expand("2024-06-01", &saturday, 2); err != nil {
		t.Fatalf("matching weekday: %v", err)
	}
	monday := time.Monday
	if _, err := Expand("2024-06-01", &monday, 2); err == nil {
		t.Fatalf("expected weekday mismatch error")
	}
	if _, err := Expand("2024-06-01", nil, 0); err == nil {
		t.Fatalf("expected error for zero weeks")
	}
}

func TestUniqueSortedKeysOrdersByDateThenCourt(t *testing.T) {
	keys := uniqueSortedKeys([]SlotKey{
		{CourtID: 2, Date: "2024-06-08"},
		{CourtID: 1, Date: "2024-06-08"},
		{CourtID: 3, Date: "2024-06-01"},
		{CourtID: 1, Date: "2024-06-08"},
	})
	want := []SlotKey{
		{CourtID: 3, Date: "2024-06-01"},
		{CourtID: 1, Date: "2024-06-08"},
		{CourtID: 2, Date: "2024-06-08"},
	}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
