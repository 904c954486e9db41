package service

import "errors"

// Validation errors surfaced to the calling layer verbatim. These are
// expected outcomes, not system failures, and are never logged as errors.
var (
	ErrProviderNotAccepting = errors.New("provider is not accepting new bookings")

	ErrPastBooking = errors.New("cannot book in the past")

	ErrClientIsProvider = errors.New("providers cannot book services")

	// ErrSlotTaken covers both the pre-check failure and a lost insert
	// race: callers cannot tell the two apart.
	ErrSlotTaken = errors.New("slot is already booked")

	ErrNotCancellable = errors.New("booking can no longer be cancelled")

	ErrPermissionDenied = errors.New("no permission to modify this booking")

	ErrInvalidTransition = errors.New("booking is not in a valid state for this action")

	ErrProviderNotFound = errors.New("provider not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrClientNotFound = errors.New("client not found")
)
