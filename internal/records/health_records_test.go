package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sehat-sathi-server/internal/models"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newRecordStore() *HealthRecordStore {
	s := NewHealthRecordStore(time.UTC)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestRecordSize(t *testing.T) {
	assert.Equal(t, "0.0 MB", RecordSize(0))
	assert.Equal(t, "1.0 MB", RecordSize(1024*1024))
	assert.Equal(t, "2.5 MB", RecordSize(5*1024*1024/2))
}

func TestCategoriesSeeded(t *testing.T) {
	cats := newRecordStore().Categories("u-1")
	require.Len(t, cats, 4)
	titles := []string{cats[0].Title, cats[1].Title, cats[2].Title, cats[3].Title}
	assert.Equal(t, []string{"BLOOD TESTS", "OP RECORDS", "DISCHARGE SUMMARY", "X-RAY REPORTS"}, titles)
	assert.Equal(t, models.RecordImage, cats[3].Records[0].Type)
}

func TestAddInfersType(t *testing.T) {
	s := newRecordStore()

	added, err := s.Add("u-1", "X-RAY REPORTS", []Upload{
		{Name: "knee.jpg", Size: 3 * 1024 * 1024, ContentType: "image/jpeg"},
		{Name: "scan", Size: 1024, ContentType: "application/octet-stream", Head: pngHeader},
		{Name: "report.pdf", Size: 512 * 1024, ContentType: "application/pdf"},
	})
	require.NoError(t, err)
	require.Len(t, added, 3)

	assert.Equal(t, models.RecordImage, added[0].Type)
	assert.Equal(t, "3.0 MB", added[0].Size)
	assert.Equal(t, "2025-03-10", added[0].Date)
	assert.Equal(t, models.RecordImage, added[1].Type)
	assert.Equal(t, models.RecordPDF, added[2].Type)
	assert.Equal(t, "0.5 MB", added[2].Size)

	cats := s.Categories("u-1")
	assert.Len(t, cats[3].Records, 5)

	_, err = s.Add("u-1", "DENTAL", []Upload{{Name: "x"}})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestDeleteAndGet(t *testing.T) {
	s := newRecordStore()

	rec, category, err := s.Get("u-1", "5")
	require.NoError(t, err)
	assert.Equal(t, "Hospital Discharge", rec.Name)
	assert.Equal(t, "DISCHARGE SUMMARY", category)

	assert.ErrorIs(t, s.Delete("u-1", "BLOOD TESTS", "5"), ErrRecordNotFound)
	require.NoError(t, s.Delete("u-1", "DISCHARGE SUMMARY", "5"))

	_, _, err = s.Get("u-1", "5")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// other users keep their own copy
	_, _, err = s.Get("u-2", "5")
	assert.NoError(t, err)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	s := newRecordStore()
	cats := s.Categories("u-1")
	cats[0].Records[0].Name = "changed"
	assert.Equal(t, "Complete Blood Count", s.Categories("u-1")[0].Records[0].Name)
}
