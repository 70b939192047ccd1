// Package records serves the patient's prescriptions and health records.
package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/repository"
)

// ErrNoMedicines is returned when a prescription is issued without medicines.
var ErrNoMedicines = errors.New("prescription needs at least one medicine")

// SamplePrescriptions returns the prescriptions every new patient starts with.
func SamplePrescriptions() []models.Prescription {
	return []models.Prescription{
		{
			SlNo:       1,
			Date:       "2024-01-15",
			Doctor:     "Dr. Smith",
			Hospital:   "City Hospital",
			Diagnosis:  "Common Cold",
			Notes:      "Rest and stay hydrated",
			Status:     models.PrescriptionActive,
			ValidUntil: "2024-02-15",
			Medicines: []models.Medicine{
				{Name: "Paracetamol", Dosage: "500mg", Frequency: "3 times daily", Duration: "5 days", Instructions: "Take after meals"},
				{Name: "Amoxicillin", Dosage: "250mg", Frequency: "2 times daily", Duration: "7 days", Instructions: "Complete the full course"},
			},
		},
		{
			SlNo:       2,
			Date:       "2024-01-10",
			Doctor:     "Dr. Johnson",
			Hospital:   "General Hospital",
			Diagnosis:  "Vitamin Deficiency",
			Notes:      "Regular monitoring required",
			Status:     models.PrescriptionActive,
			ValidUntil: "2024-04-10",
			Medicines: []models.Medicine{
				{Name: "Ibuprofen", Dosage: "400mg", Frequency: "2 times daily", Duration: "3 days", Instructions: "Take with food"},
				{Name: "Vitamin D", Dosage: "1000 IU", Frequency: "Once daily", Duration: "30 days", Instructions: "Take in the morning"},
			},
		},
		{
			SlNo:       3,
			Date:       "2024-01-05",
			Doctor:     "Dr. Williams",
			Hospital:   "Metro Hospital",
			Diagnosis:  "Hypertension",
			Notes:      "Monitor blood pressure regularly",
			Status:     models.PrescriptionCompleted,
			ValidUntil: "2024-02-05",
			Medicines: []models.Medicine{
				{Name: "Aspirin", Dosage: "75mg", Frequency: "Once daily", Duration: "30 days", Instructions: "Take in the evening"},
				{Name: "Calcium", Dosage: "500mg", Frequency: "2 times daily", Duration: "30 days", Instructions: "Take with meals"},
			},
		},
	}
}

// IssueRequest is a new prescription written by a doctor.
type IssueRequest struct {
	Hospital   string
	Diagnosis  string
	Notes      string
	ValidUntil string
	Medicines  []models.Medicine
}

// PrescriptionService lists, searches and issues prescriptions.
type PrescriptionService struct {
	repo   repository.PrescriptionRepository
	logger zerolog.Logger
	loc    *time.Location
	now    func() time.Time

	mu sync.Mutex
}

func NewPrescriptionService(repo repository.PrescriptionRepository, logger zerolog.Logger, loc *time.Location) *PrescriptionService {
	if loc == nil {
		loc = time.UTC
	}
	return &PrescriptionService{repo: repo, logger: logger, loc: loc, now: time.Now}
}

// ensure returns the user's prescriptions, seeding the samples on first access.
func (s *PrescriptionService) ensure(ctx context.Context, userID string) ([]models.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(ctx, userID)
}

func (s *PrescriptionService) ensureLocked(ctx context.Context, userID string) ([]models.Prescription, error) {
	items, found, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if found {
		return items, nil
	}

	seed := SamplePrescriptions()
	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].UserID = userID
	}
	if err := s.repo.Append(ctx, userID, seed); err != nil {
		return nil, fmt.Errorf("seed prescriptions: %w", err)
	}
	s.logger.Debug().Str("user_id", userID).Int("count", len(seed)).Msg("seeded sample prescriptions")
	return seed, nil
}

// List returns the user's prescriptions whose doctor, hospital or diagnosis
// contains search, ignoring case.
func (s *PrescriptionService) List(ctx context.Context, userID, search string) ([]models.Prescription, error) {
	items, err := s.ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return items, nil
	}
	out := make([]models.Prescription, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Doctor), term) ||
			strings.Contains(strings.ToLower(p.Hospital), term) ||
			strings.Contains(strings.ToLower(p.Diagnosis), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PrescriptionService) Get(ctx context.Context, userID, id string) (*models.Prescription, error) {
	if _, err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, id)
}

// Issue appends a prescription written by doctor to the patient's list.
func (s *PrescriptionService) Issue(ctx context.Context, patientID, doctor string, req IssueRequest) (*models.Prescription, error) {
	if len(req.Medicines) == 0 {
		return nil, ErrNoMedicines
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.ensureLocked(ctx, patientID)
	if err != nil {
		return nil, err
	}

	p := models.Prescription{
		BaseModel:  models.BaseModel{ID: uuid.NewString()},
		UserID:     patientID,
		SlNo:       len(existing) + 1,
		Date:       s.now().In(s.loc).Format("2006-01-02"),
		Doctor:     doctor,
		Hospital:   req.Hospital,
		Diagnosis:  req.Diagnosis,
		Notes:      req.Notes,
		Status:     models.PrescriptionActive,
		ValidUntil: req.ValidUntil,
		Medicines:  req.Medicines,
	}
	if err := s.repo.Append(ctx, patientID, []models.Prescription{p}); err != nil {
		return nil, fmt.Errorf("store prescription: %w", err)
	}
	s.logger.Info().Str("patient_id", patientID).Str("prescription_id", p.ID).Str("doctor", doctor).Msg("prescription issued")
	return &p, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName is the download name of a prescription.
func FileName(p *models.Prescription) string {
	return fmt.Sprintf("prescription-%s-%s.txt", p.Date, whitespace.ReplaceAllString(p.Doctor, "-"))
}

// RenderText renders a prescription as the plain-text download.
func RenderText(p *models.Prescription) string {
	var b strings.Builder
	b.WriteString("PRESCRIPTION\n-----------\n")
	fmt.Fprintf(&b, "Date: %s\n", p.Date)
	fmt.Fprintf(&b, "Doctor: %s\n", p.Doctor)
	fmt.Fprintf(&b, "Hospital: %s\n", p.Hospital)
	fmt.Fprintf(&b, "Diagnosis: %s\n\n", p.Diagnosis)
	b.WriteString("MEDICINES:\n")
	for _, m := range p.Medicines {
		fmt.Fprintf(&b, "- %s (%s) - %s for %s\n", m.Name, m.Dosage, m.Frequency, m.Duration)
		fmt.Fprintf(&b, "    Instructions: %s\n", m.Instructions)
	}
	fmt.Fprintf(&b, "\nNotes: %s\n", p.Notes)
	fmt.Fprintf(&b, "Valid Until: %s\n", p.ValidUntil)
	return b.String()
}
