package records

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"sehat-sathi-server/internal/models"
)

var (
	ErrUnknownCategory = errors.New("unknown record category")
	ErrRecordNotFound  = errors.New("health record not found")
)

// Upload describes one uploaded file. Only metadata is kept; Head holds the
// leading bytes used when the declared content type is missing.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Head        []byte
}

// RecordSize formats a byte count the way record listings show it.
func RecordSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// RecordType classifies a MIME type as image or pdf.
func RecordType(mime string) models.HealthRecordType {
	if strings.HasPrefix(mime, "image/") {
		return models.RecordImage
	}
	return models.RecordPDF
}

func detectType(u Upload) string {
	declared := strings.TrimSpace(u.ContentType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(u.Head) == 0 {
		return declared
	}
	return mimetype.Detect(u.Head).String()
}

// SampleCategories returns the record categories every user starts with.
func SampleCategories() []models.RecordCategory {
	return []models.RecordCategory{
		{Title: "BLOOD TESTS", Records: []models.HealthRecord{
			{ID: "1", Name: "Complete Blood Count", Date: "2024-01-15", Size: "2.3 MB", Type: models.RecordPDF},
			{ID: "2", Name: "Lipid Profile", Date: "2024-01-10", Size: "1.8 MB", Type: models.RecordPDF},
		}},
		{Title: "OP RECORDS", Records: []models.HealthRecord{
			{ID: "3", Name: "Consultation Report", Date: "2024-01-20", Size: "1.5 MB", Type: models.RecordPDF},
			{ID: "4", Name: "Follow-up Notes", Date: "2024-01-18", Size: "0.8 MB", Type: models.RecordPDF},
		}},
		{Title: "DISCHARGE SUMMARY", Records: []models.HealthRecord{
			{ID: "5", Name: "Hospital Discharge", Date: "2024-01-12", Size: "3.2 MB", Type: models.RecordPDF},
		}},
		{Title: "X-RAY REPORTS", Records: []models.HealthRecord{
			{ID: "6", Name: "Chest X-Ray", Date: "2024-01-08", Size: "4.1 MB", Type: models.RecordImage},
			{ID: "7", Name: "Spine X-Ray", Date: "2024-01-05", Size: "3.8 MB", Type: models.RecordImage},
		}},
	}
}

// HealthRecordStore holds per-user record categories in memory only.
type HealthRecordStore struct {
	mu    sync.Mutex
	users map[string][]models.RecordCategory
	loc   *time.Location
	now   func() time.Time
}

func NewHealthRecordStore(loc *time.Location) *HealthRecordStore {
	if loc == nil {
		loc = time.UTC
	}
	return &HealthRecordStore{
		users: make(map[string][]models.RecordCategory),
		loc:   loc,
		now:   time.Now,
	}
}

func (s *HealthRecordStore) categoriesLocked(userID string) []models.RecordCategory {
	cats, ok := s.users[userID]
	if !ok {
		cats = SampleCategories()
		s.users[userID] = cats
	}
	return cats
}

func copyCategories(cats []models.RecordCategory) []models.RecordCategory {
	out := make([]models.RecordCategory, len(cats))
	for i, c := range cats {
		out[i] = models.RecordCategory{
			Title:   c.Title,
			Records: append([]models.HealthRecord{}, c.Records...),
		}
	}
	return out
}

// Categories lists the user's record categories.
func (s *HealthRecordStore) Categories(userID string) []models.RecordCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCategories(s.categoriesLocked(userID))
}

// Add records uploads in the named category and returns the new records.
func (s *HealthRecordStore) Add(userID, category string, uploads []Upload) ([]models.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.categoriesLocked(userID)
	idx := categoryIndex(cats, category)
	if idx < 0 {
		return nil, ErrUnknownCategory
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	added := make([]models.HealthRecord, 0, len(uploads))
	for _, u := range uploads {
		rec := models.HealthRecord{
			ID:   strings.ReplaceAll(uuid.NewString(), "-", "")[:9],
			Name: u.Name,
			Date: today,
			Size: RecordSize(u.Size),
			Type: RecordType(detectType(u)),
		}
		cats[idx].Records = append(cats[idx].Records, rec)
		added = append(added, rec)
	}
	return added, nil
}

// Get finds a record by id in any category.
func (s *HealthRecordStore) Get(userID, id string) (*models.HealthRecord, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categoriesLocked(userID) {
		for _, r := range c.Records {
			if r.ID == id {
				rec := r
				return &rec, c.Title, nil
			}
		}
	}
	return nil, "", ErrRecordNotFound
}

// Delete removes a record from a category.
func (s *HealthRecordStore) Delete(userID, category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.categoriesLocked(userID)
	idx := categoryIndex(cats, category)
	if idx < 0 {
		return ErrUnknownCategory
	}
	records := cats[idx].Records
	for i, r := range records {
		if r.ID == id {
			cats[idx].Records = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

// Forget drops everything kept for the user.
func (s *HealthRecordStore) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

func categoryIndex(cats []models.RecordCategory, title string) int {
	for i, c := range cats {
		if strings.EqualFold(c.Title, title) {
			return i
		}
	}
	return -1
}
