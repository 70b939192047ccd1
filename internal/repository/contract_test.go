package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sehat-sathi-server/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleConsultation(id, userID, date, slot string, status models.ConsultationStatus) models.Consultation {
	created := time.Date(2025, 2, 20, 9, 30, 0, 0, time.UTC)
	c := models.Consultation{
		BaseModel:        models.BaseModel{ID: id, CreatedAt: created, UpdatedAt: created},
		UserID:           userID,
		Date:             date,
		Time:             slot,
		Type:             models.ConsultationVideo,
		Symptoms:         "fever",
		DoctorPreference: "General Physician",
		Status:           status,
		DoctorName:       "Dr. Available Jones",
		MeetingLink:      strPtr("https://meet.sehat-sathi.com/abc123xyz"),
	}
	return c
}

func runConsultationContract(t *testing.T, newRepo func(t *testing.T) ConsultationRepository) {
	ctx := context.Background()

	t.Run("round trip preserves every field", func(t *testing.T) {
		repo := newRepo(t)
		chat := sampleConsultation("c-3", "u-1", "2025-03-02", "02:00 PM", models.StatusCancelled)
		chat.Type = models.ConsultationChat
		chat.MeetingLink = nil
		chat.IsEmergency = true
		want := []models.Consultation{
			sampleConsultation("c-1", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled),
			sampleConsultation("c-2", "u-1", "2025-03-01", "11:00 AM", models.StatusCompleted),
			chat,
		}
		for i := range want {
			c := want[i]
			require.NoError(t, repo.Append(ctx, &c))
		}

		got, err := repo.ListByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("lists are scoped by user", func(t *testing.T) {
		repo := newRepo(t)
		a := sampleConsultation("c-1", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled)
		b := sampleConsultation("c-2", "u-2", "2025-03-01", "10:00 AM", models.StatusScheduled)
		require.NoError(t, repo.Append(ctx, &a))
		require.NoError(t, repo.Append(ctx, &b))

		got, err := repo.ListByUser(ctx, "u-2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c-2", got[0].ID)

		_, err = repo.Get(ctx, "u-2", "c-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		repo := newRepo(t)
		c := sampleConsultation("c-1", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled)
		require.NoError(t, repo.Append(ctx, &c))

		c.Status = models.StatusCancelled
		require.NoError(t, repo.Update(ctx, &c))
		got, err := repo.Get(ctx, "u-1", "c-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)

		missing := sampleConsultation("nope", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled)
		assert.ErrorIs(t, repo.Update(ctx, &missing), ErrNotFound)

		require.NoError(t, repo.Delete(ctx, "u-1", "c-1"))
		assert.ErrorIs(t, repo.Delete(ctx, "u-1", "c-1"), ErrNotFound)
	})

	t.Run("clear and list scheduled", func(t *testing.T) {
		repo := newRepo(t)
		for _, c := range []models.Consultation{
			sampleConsultation("c-1", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled),
			sampleConsultation("c-2", "u-1", "2025-03-01", "11:00 AM", models.StatusCancelled),
			sampleConsultation("c-3", "u-2", "2025-03-01", "10:00 AM", models.StatusScheduled),
		} {
			c := c
			require.NoError(t, repo.Append(ctx, &c))
		}

		scheduled, err := repo.ListScheduled(ctx)
		require.NoError(t, err)
		assert.Len(t, scheduled, 2)

		require.NoError(t, repo.Clear(ctx, "u-1"))
		got, err := repo.ListByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Empty(t, got)

		scheduled, err = repo.ListScheduled(ctx)
		require.NoError(t, err)
		require.Len(t, scheduled, 1)
		assert.Equal(t, "u-2", scheduled[0].UserID)
	})
}

func runPrescriptionContract(t *testing.T, newRepo func(t *testing.T) PrescriptionRepository) {
	ctx := context.Background()

	repo := newRepo(t)
	_, found, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, found)

	items := []models.Prescription{{
		BaseModel: models.BaseModel{ID: "p-1"},
		SlNo:      1,
		Doctor:    "Dr. Smith",
		Status:    models.PrescriptionActive,
		Medicines: []models.Medicine{{Name: "Paracetamol", Dosage: "500mg"}},
	}}
	require.NoError(t, repo.Append(ctx, "u-1", items))

	got, found, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "Dr. Smith", got[0].Doctor)
	assert.Equal(t, "u-1", got[0].UserID)
	require.Len(t, got[0].Medicines, 1)
	assert.Equal(t, "Paracetamol", got[0].Medicines[0].Name)

	one, err := repo.Get(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, one.SlNo)

	_, err = repo.Get(ctx, "u-2", "p-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMemoryConsultationRepository(t *testing.T) {
	runConsultationContract(t, func(t *testing.T) ConsultationRepository {
		return NewMemoryConsultationRepository()
	})
}

func TestRedisConsultationRepository(t *testing.T) {
	runConsultationContract(t, func(t *testing.T) ConsultationRepository {
		return NewRedisConsultationRepository(newTestRedis(t))
	})
}

func TestMemoryPrescriptionRepository(t *testing.T) {
	runPrescriptionContract(t, func(t *testing.T) PrescriptionRepository {
		return NewMemoryPrescriptionRepository()
	})
}

func TestRedisPrescriptionRepository(t *testing.T) {
	runPrescriptionContract(t, func(t *testing.T) PrescriptionRepository {
		return NewRedisPrescriptionRepository(newTestRedis(t))
	})
}

func TestRedisConsultationKeyLayout(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	repo := NewRedisConsultationRepository(client)

	c := sampleConsultation("c-1", "u-42", "2025-03-01", "10:00 AM", models.StatusScheduled)
	require.NoError(t, repo.Append(ctx, &c))

	raw, err := client.Get(ctx, "consultations-u-42").Result()
	require.NoError(t, err)
	assert.Contains(t, raw, `"meetingLink":"https://meet.sehat-sathi.com/abc123xyz"`)
	assert.Contains(t, raw, `"status":"scheduled"`)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConsultationRepository()
	c := sampleConsultation("c-1", "u-1", "2025-03-01", "10:00 AM", models.StatusScheduled)
	require.NoError(t, repo.Append(ctx, &c))

	got, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	got[0].Status = models.StatusCancelled
	*got[0].MeetingLink = "changed"

	again, err := repo.Get(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, again.Status)
	assert.Equal(t, "https://meet.sehat-sathi.com/abc123xyz", *again.MeetingLink)
}
