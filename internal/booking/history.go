package booking

import (
	"strings"

	"sehat-sathi-server/internal/models"
)

// HistoryEntry is a consultation as shown in the history table.
type HistoryEntry struct {
	SlNo        int                       `json:"slNo"`
	ID          string                    `json:"id"`
	Date        string                    `json:"date"`
	Time        string                    `json:"time"`
	Condition   string                    `json:"condition"`
	Doctor      string                    `json:"doctor"`
	Hospital    string                    `json:"hospital"`
	Status      models.ConsultationStatus `json:"status"`
	Type        models.ConsultationType   `json:"type"`
	IsEmergency bool                      `json:"isEmergency"`
	MeetingLink *string                   `json:"meetingLink,omitempty"`
}

// BuildHistory projects consultations into history rows numbered from 1.
func BuildHistory(consultations []models.Consultation) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(consultations))
	for i, c := range consultations {
		entry := HistoryEntry{
			SlNo:        i + 1,
			ID:          c.ID,
			Date:        c.Date,
			Time:        c.Time,
			Condition:   c.Symptoms,
			Doctor:      c.DoctorName,
			Hospital:    "General Hospital",
			Status:      c.Status,
			Type:        c.Type,
			IsEmergency: c.IsEmergency,
			MeetingLink: c.MeetingLink,
		}
		if entry.Condition == "" {
			entry.Condition = "General Consultation"
		}
		if entry.Doctor == "" {
			entry.Doctor = "Dr. Available"
		}
		if c.IsEmergency {
			entry.Hospital = "Emergency Department"
		}
		entries = append(entries, entry)
	}
	return entries
}

// FilterHistory keeps rows whose condition, doctor or hospital contains
// search, ignoring case. Row numbers are kept from the unfiltered list.
func FilterHistory(entries []HistoryEntry, search string) []HistoryEntry {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return entries
	}
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Condition), term) ||
			strings.Contains(strings.ToLower(e.Doctor), term) ||
			strings.Contains(strings.ToLower(e.Hospital), term) {
			out = append(out, e)
		}
	}
	return out
}
