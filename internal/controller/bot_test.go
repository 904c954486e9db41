package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/service"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/slots 7 2026-08-31", []string{"7", "2026-08-31"}},
		{"/mybookings", nil},
		{"/book  7   2026-08-31  09:30", []string{"7", "2026-08-31", "09:30"}},
	}

	for _, tc := range tests {
		got := commandArgs(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("commandArgs(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("commandArgs(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays("mon,wed,friday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Weekday{model.Monday, model.Wednesday, model.Friday}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range days {
		if days[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, days[i], want[i])
		}
	}

	for _, in := range []string{"", "funday", "mo", "mon,xyz"} {
		if _, err := parseWeekdays(in); err == nil {
			t.Errorf("parseWeekdays(%q): expected an error", in)
		}
	}
}

func TestBookingErrorMessage(t *testing.T) {
	if got := bookingErrorMessage(service.ErrSlotTaken); got == "" {
		t.Error("expected a message for a taken slot")
	}
	// Wrapped sentinels still map to their message.
	wrapped := fmt.Errorf("create booking: %w", service.ErrPastBooking)
	if got := bookingErrorMessage(wrapped); got != bookingErrorMessage(service.ErrPastBooking) {
		t.Error("wrapped sentinel must map to the same message")
	}
	// Unknown errors stay generic.
	if got := bookingErrorMessage(errors.New("pq: connection reset")); got != "Something went wrong, please try again." {
		t.Errorf("unexpected message for unknown error: %q", got)
	}
}
