package booking

import "sehat-sathi-server/internal/models"

// SlotAvailability is one cell of the time-slot grid.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// IsSlotAvailable reports whether (date, time) is free. Only scheduled
// consultations hold a slot; an empty date leaves every slot open.
func IsSlotAvailable(date, time string, consultations []models.Consultation) bool {
	if date == "" {
		return true
	}
	for _, c := range consultations {
		if c.Date == date && c.Time == time && c.Status == models.StatusScheduled {
			return false
		}
	}
	return true
}

// AvailabilityGrid evaluates IsSlotAvailable for every label in TimeSlots.
func AvailabilityGrid(date string, consultations []models.Consultation) []SlotAvailability {
	grid := make([]SlotAvailability, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		grid = append(grid, SlotAvailability{
			Time:      slot,
			Available: IsSlotAvailable(date, slot, consultations),
		})
	}
	return grid
}
