package model

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"09:00", 9 * 60},
		{"16:30", 16*60 + 30},
		{"23:59", 23*60 + 59},
	}

	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("round trip of %q gave %q", tc.in, got.String())
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "9am", "25:00", "12:61"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Errorf("ParseTimeOfDay(%q): expected an error", in)
		}
	}
}

func TestTimeOfDayAt(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)

	got := TimeOfDay(14*60 + 30).At(date)
	want := time.Date(2026, 8, 31, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}

	// The date's own clock component is ignored.
	noon := date.Add(12 * time.Hour)
	if got := TimeOfDay(9 * 60).At(noon); got.Hour() != 9 {
		t.Errorf("At() must take the hour from the time of day, got %v", got)
	}
}

func TestTimeOfDayAdd(t *testing.T) {
	start := TimeOfDay(9 * 60)
	if got := start.Add(45); got.String() != "09:45" {
		t.Errorf("Add(45) = %s, want 09:45", got)
	}
	if got := start.Add(0); got != start {
		t.Errorf("Add(0) changed the value to %s", got)
	}
}
