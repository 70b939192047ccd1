package models

// HealthRecordType is inferred from the uploaded file's MIME type.
type HealthRecordType string

const (
	RecordImage HealthRecordType = "image"
	RecordPDF   HealthRecordType = "pdf"
)

// HealthRecord holds the metadata of an uploaded record file.
type HealthRecord struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Date string           `json:"date"`
	Size string           `json:"size"`
	Type HealthRecordType `json:"type"`
}

// RecordCategory groups health records under a heading.
type RecordCategory struct {
	Title   string         `json:"title"`
	Records []HealthRecord `json:"records"`
}
