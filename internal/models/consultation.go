package models

// ConsultationType is the channel a consultation is held over.
type ConsultationType string

const (
	ConsultationVideo ConsultationType = "video"
	ConsultationAudio ConsultationType = "audio"
	ConsultationChat  ConsultationType = "chat"
)

// Valid reports whether t is one of the supported consultation types.
func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationVideo, ConsultationAudio, ConsultationChat:
		return true
	}
	return false
}

// ConsultationStatus represents the lifecycle state of a consultation
type ConsultationStatus string

const (
	StatusScheduled ConsultationStatus = "scheduled"
	StatusCompleted ConsultationStatus = "completed"
	StatusCancelled ConsultationStatus = "cancelled"
)

// Consultation is a booked tele-consultation slot owned by one user.
type Consultation struct {
	BaseModel
	UserID           string             `gorm:"size:36;index:idx_consultation_slot" json:"userId"`
	Date             string             `gorm:"size:10;index:idx_consultation_slot" json:"date"`
	Time             string             `gorm:"size:8;index:idx_consultation_slot" json:"time"`
	Type             ConsultationType   `gorm:"size:10" json:"type"`
	Symptoms         string             `gorm:"type:text" json:"symptoms"`
	DoctorPreference string             `gorm:"size:100" json:"doctorPreference"`
	IsEmergency      bool               `gorm:"default:false" json:"isEmergency"`
	Status           ConsultationStatus `gorm:"size:20;default:'scheduled';index" json:"status"`
	DoctorName       string             `gorm:"size:100" json:"doctorName,omitempty"`
	MeetingLink      *string            `gorm:"size:255" json:"meetingLink,omitempty"`
}
