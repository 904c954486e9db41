package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// A booking in pending, confirmed or active status claims its slot: the
// (provider, date, time) triple is unique among such bookings, enforced by
// a partial unique index in storage.
type Booking struct {
	ID         int64         `json:"id"`
	ClientID   int64         `json:"client_id"`
	ProviderID int64         `json:"provider_id"`
	Date       time.Time     `json:"date"`
	Time       TimeOfDay     `json:"time"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Client   *User     `json:"client,omitempty"`
	Provider *Provider `json:"provider,omitempty"`
}

// StartsAt combines the booking date and time into a local instant.
func (b *Booking) StartsAt() time.Time {
	return b.Time.At(b.Date)
}

// EndTime derives the end of the appointment from the service duration.
func (b *Booking) EndTime(durationMinutes int) TimeOfDay {
	return b.Time.Add(durationMinutes)
}

// CanBeCancelled reports whether the booking is still in a cancellable state.
func (b *Booking) CanBeCancelled() bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive:
		return true
	}
	return false
}

// IsUpcoming reports whether the appointment is strictly in the future.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.StartsAt().After(now)
}
