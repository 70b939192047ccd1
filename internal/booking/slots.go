package booking

import (
	"time"
)

// DateLayout is the calendar date format used by consultations.
const DateLayout = "2006-01-02"

const slotLayout = "2006-01-02 03:04 PM"

// SlotDuration is the length of one consultation slot.
const SlotDuration = time.Hour

// TimeSlots are the bookable time-of-day labels, in display order.
var TimeSlots = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
	"05:00 PM",
}

// IsKnownSlot reports whether label is one of TimeSlots.
func IsKnownSlot(label string) bool {
	for _, s := range TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}

// SlotStart returns the instant a slot begins in loc.
func SlotStart(date, label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(slotLayout, date+" "+label, loc)
}
