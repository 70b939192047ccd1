package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidBooking is wrapped by every booking input validation error.
var ErrInvalidBooking = errors.New("invalid booking")

var (
	ErrInvalidDate      = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidBooking)
	ErrDateInPast       = fmt.Errorf("%w: date is in the past", ErrInvalidBooking)
	ErrInvalidSlot      = fmt.Errorf("%w: unknown time slot", ErrInvalidBooking)
	ErrInvalidType      = fmt.Errorf("%w: type must be video, audio or chat", ErrInvalidBooking)
	ErrSymptomsRequired = fmt.Errorf("%w: symptoms are required", ErrInvalidBooking)
)

var (
	// ErrSlotUnavailable means a scheduled consultation already holds the slot.
	ErrSlotUnavailable = errors.New("time slot already booked")
	// ErrNotConfirmed means the scheduling service did not acknowledge the booking.
	ErrNotConfirmed = errors.New("booking not confirmed by scheduling service")
	// ErrInvalidTransition means the requested status change is not allowed.
	ErrInvalidTransition = errors.New("invalid consultation status transition")
)
