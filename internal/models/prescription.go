package models

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionExpired   PrescriptionStatus = "expired"
)

// Prescription is an e-prescription issued to a patient.
type Prescription struct {
	BaseModel
	UserID     string             `gorm:"size:36;index" json:"-"`
	SlNo       int                `json:"slNo"`
	Date       string             `gorm:"size:10" json:"date"`
	Doctor     string             `gorm:"size:100" json:"doctor"`
	Hospital   string             `gorm:"size:255" json:"hospital"`
	Diagnosis  string             `gorm:"size:255" json:"diagnosis"`
	Notes      string             `gorm:"type:text" json:"notes"`
	Status     PrescriptionStatus `gorm:"size:20;default:'active'" json:"status"`
	ValidUntil string             `gorm:"size:10" json:"validUntil"`
	Medicines  []Medicine         `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE" json:"medicines"`
}

// Medicine is one line item of a prescription.
type Medicine struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	PrescriptionID string `gorm:"size:36;index" json:"-"`
	Name           string `gorm:"size:100" json:"name"`
	Dosage         string `gorm:"size:50" json:"dosage"`
	Frequency      string `gorm:"size:50" json:"frequency"`
	Duration       string `gorm:"size:50" json:"duration"`
	Instructions   string `gorm:"size:255" json:"instructions"`
}
