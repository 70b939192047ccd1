package identity

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sehat-sathi-server/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

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

func TestGormFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormUserStore(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "user_type"}).
		AddRow("u-1", "rahul@example.com", "Rahul", "patient")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(rows)

	user, err := store.FindByEmail(context.Background(), " Rahul@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.UserPatient, user.UserType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormUserStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryStoreEmailChange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	u := &models.User{Email: "old@example.com", Name: "Old"}
	require.NoError(t, store.Create(ctx, u))

	u.Email = "new@example.com"
	require.NoError(t, store.Update(ctx, u))

	_, err := store.FindByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	got, err := store.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	assert.ErrorIs(t, store.Create(ctx, &models.User{Email: "NEW@example.com"}), ErrEmailTaken)
}
