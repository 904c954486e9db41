package model

import (
	"testing"
	"time"
)

func TestWeekdayOf(t *testing.T) {
	// 2026-08-31 is a Monday.
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	for i, want := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		if got := WeekdayOf(date.AddDate(0, 0, i)); got != want {
			t.Errorf("WeekdayOf(+%d days) = %s, want %s", i, got, want)
		}
	}
}

func TestProviderWorksOn(t *testing.T) {
	p := &Provider{WorkingDays: []Weekday{Monday, Wednesday, Friday}}

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	if !p.WorksOn(monday) {
		t.Error("expected provider to work on Monday")
	}
	if p.WorksOn(monday.AddDate(0, 0, 1)) {
		t.Error("expected provider not to work on Tuesday")
	}

	empty := &Provider{}
	if empty.WorksOn(monday) {
		t.Error("a provider without working days works on no day")
	}
}
