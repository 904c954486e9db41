package model

import (
	"testing"
	"time"
)

func TestBookingCanBeCancelled(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingStatusPending, true},
		{BookingStatusConfirmed, true},
		{BookingStatusActive, true},
		{BookingStatusCompleted, false},
		{BookingStatusCancelled, false},
		{BookingStatusNoShow, false},
	}

	for _, tc := range tests {
		b := &Booking{Status: tc.status}
		if got := b.CanBeCancelled(); got != tc.want {
			t.Errorf("CanBeCancelled() with status %s = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestBookingStartsAt(t *testing.T) {
	b := &Booking{
		Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local),
		Time: 10 * 60,
	}

	want := time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)
	if !b.StartsAt().Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", b.StartsAt(), want)
	}
}

func TestBookingIsUpcoming(t *testing.T) {
	b := &Booking{
		Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local),
		Time: 10 * 60,
	}

	before := time.Date(2026, 8, 31, 9, 59, 0, 0, time.Local)
	if !b.IsUpcoming(before) {
		t.Error("expected booking to be upcoming a minute before start")
	}

	// Exactly at start is not upcoming.
	if b.IsUpcoming(b.StartsAt()) {
		t.Error("a booking starting now is not upcoming")
	}

	after := b.StartsAt().Add(time.Minute)
	if b.IsUpcoming(after) {
		t.Error("a started booking is not upcoming")
	}
}

func TestBookingEndTime(t *testing.T) {
	b := &Booking{Time: 16*60 + 30}
	if got := b.EndTime(45); got.String() != "17:15" {
		t.Errorf("EndTime(45) = %s, want 17:15", got)
	}
}
