package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sehat-sathi-server/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormListByUserScopesAndOrders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "time", "type", "symptoms", "status", "doctor_name", "meeting_link"}).
		AddRow("c-1", "u-1", "2025-03-01", "10:00 AM", "video", "fever", "scheduled", "Dr. Available Jones", "https://meet.sehat-sathi.com/x").
		AddRow("c-2", "u-1", "2025-03-01", "11:00 AM", "chat", "cough", "scheduled", "Dr. Available Jones", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `consultations` WHERE user_id = ? ORDER BY created_at asc")).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ConsultationVideo, got[0].Type)
	require.NotNil(t, got[0].MeetingLink)
	assert.Nil(t, got[1].MeetingLink)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetMapsMissingRowToErrNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `consultations` WHERE id = ? AND user_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "u-1", "c-9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormClearDeletesOnlyUserRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `consultations` WHERE user_id = ?")).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(context.Background(), "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteWithoutRowsIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `consultations` WHERE id = ? AND user_id = ?")).
		WithArgs("c-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "c-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateWritesUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectExec("UPDATE `consultations` SET .*`updated_at`=\\?.* WHERE user_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Consultation{
		BaseModel: models.BaseModel{ID: "c-1", UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		UserID:    "u-1",
		Date:      "2025-03-01",
		Time:      "10:00 AM",
		Type:      models.ConsultationVideo,
		Status:    models.StatusCancelled,
	}
	require.NoError(t, repo.Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}
