package records

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sehat-sathi-server/internal/logging"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/repository"
)

func newPrescriptionService() *PrescriptionService {
	svc := NewPrescriptionService(repository.NewMemoryPrescriptionRepository(), logging.Nop(), time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestListSeedsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newPrescriptionService()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.List(ctx, "u-1", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := svc.List(ctx, "u-1", "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Dr. Smith", items[0].Doctor)
	assert.Equal(t, models.PrescriptionCompleted, items[2].Status)
	assert.Len(t, items[1].Medicines, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestListSearch(t *testing.T) {
	svc := newPrescriptionService()
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Dr. Smith", "Dr. Johnson", "Dr. Williams"}},
		{"johnson", []string{"Dr. Johnson"}},
		{"HOSPITAL", []string{"Dr. Smith", "Dr. Johnson", "Dr. Williams"}},
		{"metro", []string{"Dr. Williams"}},
		{"cold", []string{"Dr. Smith"}},
		{"paracetamol", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			items, err := svc.List(context.Background(), "u-1", tt.term)
			require.NoError(t, err)
			doctors := make([]string, 0, len(items))
			for _, p := range items {
				doctors = append(doctors, p.Doctor)
			}
			assert.Equal(t, tt.want, doctors)
		})
	}
}

func TestIssueAppendsAfterSamples(t *testing.T) {
	ctx := context.Background()
	svc := newPrescriptionService()

	_, err := svc.Issue(ctx, "u-1", "Dr. Rao", IssueRequest{Diagnosis: "Flu"})
	assert.ErrorIs(t, err, ErrNoMedicines)

	p, err := svc.Issue(ctx, "u-1", "Dr. Rao", IssueRequest{
		Hospital:   "District Hospital",
		Diagnosis:  "Flu",
		ValidUntil: "2025-03-20",
		Medicines:  []models.Medicine{{Name: "Oseltamivir", Dosage: "75mg", Frequency: "2 times daily", Duration: "5 days"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, p.SlNo)
	assert.Equal(t, "2025-03-10", p.Date)
	assert.Equal(t, models.PrescriptionActive, p.Status)

	got, err := svc.Get(ctx, "u-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flu", got.Diagnosis)

	_, err = svc.Get(ctx, "u-2", p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDownloadRendering(t *testing.T) {
	p := SamplePrescriptions()[0]

	assert.Equal(t, "prescription-2024-01-15-Dr.-Smith.txt", FileName(&p))

	text := RenderText(&p)
	assert.Contains(t, text, "PRESCRIPTION\n-----------\n")
	assert.Contains(t, text, "Doctor: Dr. Smith\n")
	assert.Contains(t, text, "- Paracetamol (500mg) - 3 times daily for 5 days\n    Instructions: Take after meals\n")
	assert.Contains(t, text, "Valid Until: 2024-02-15\n")
}
