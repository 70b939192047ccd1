package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sehat-sathi-server/internal/config"
	"sehat-sathi-server/internal/identity"
	"sehat-sathi-server/internal/logging"
	"sehat-sathi-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 1,
	}
}

func newUser(t *testing.T, users identity.UserStore) *models.User {
	t.Helper()
	u := &models.User{Email: "asha@example.com", Name: "Asha", UserType: models.UserPatient}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestManagerLifecycle(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t)
			return s
		},
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			users := identity.NewMemoryUserStore()
			user := newUser(t, users)
			m := NewManager(newStore(t), users, testConfig(), logging.Nop())

			s, tokens, err := m.Start(ctx, user)
			require.NoError(t, err)
			assert.Equal(t, user.ID, s.UserID)
			assert.Equal(t, "Asha", s.User.Name)

			resolved, err := m.Resolve(ctx, tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, s.ID, resolved.ID)

			user.Name = "Asha Devi"
			require.NoError(t, m.Update(ctx, resolved, user))
			resolved, err = m.Resolve(ctx, tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "Asha Devi", resolved.User.Name)

			require.NoError(t, m.End(ctx, s.ID))
			_, err = m.Resolve(ctx, tokens.AccessToken)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	ctx := context.Background()
	users := identity.NewMemoryUserStore()
	user := newUser(t, users)
	m := NewManager(NewMemoryStore(), users, testConfig(), logging.Nop())

	s, first, err := m.Start(ctx, user)
	require.NoError(t, err)

	refreshed, second, err := m.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, s.ID, refreshed.ID)
	assert.NotEqual(t, first.RefreshTokenID, second.RefreshTokenID)

	_, _, err = m.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshReused)

	// reuse ends the session for every token holder
	_, err = m.Resolve(ctx, second.AccessToken)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	users := identity.NewMemoryUserStore()
	m := NewManager(NewMemoryStore(), users, testConfig(), logging.Nop())

	_, tokens, err := m.Start(ctx, newUser(t, users))
	require.NoError(t, err)

	_, _, err = m.Refresh(ctx, tokens.AccessToken)
	assert.Error(t, err)
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	s := &Session{ID: "s-1", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, s))

	raw, err := mr.Get(Key("s-1"))
	require.NoError(t, err)
	var decoded Session
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "u-1", decoded.UserID)
	assert.Equal(t, "sehat-sathi-user:s-1", Key("s-1"))

	ttl := mr.TTL(Key("s-1"))
	assert.Greater(t, ttl, 59*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &Session{ID: "s-1", ExpiresAt: now.Add(time.Minute)}))
	_, err := store.Get(ctx, "s-1")
	require.NoError(t, err)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNoSession)
}
