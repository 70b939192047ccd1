// Package session manages the logged-in user session: it is created on
// login, validated on every request and destroyed on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sehat-sathi-server/internal/config"
	"sehat-sathi-server/internal/identity"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/utils"
)

// ErrRefreshReused means a rotated-out refresh token was presented. The
// session is ended when this happens.
var ErrRefreshReused = errors.New("refresh token already used")

// Session is the server-side record of a logged-in user.
type Session struct {
	ID             string               `json:"id"`
	UserID         string               `json:"userId"`
	User           models.UserSanitized `json:"user"`
	RefreshTokenID string               `json:"refreshTokenId"`
	CreatedAt      time.Time            `json:"createdAt"`
	ExpiresAt      time.Time            `json:"expiresAt"`
}

// Manager starts, refreshes and ends sessions.
type Manager struct {
	store  Store
	users  identity.UserStore
	cfg    *config.Config
	logger zerolog.Logger
}

func NewManager(store Store, users identity.UserStore, cfg *config.Config, logger zerolog.Logger) *Manager {
	return &Manager{store: store, users: users, cfg: cfg, logger: logger}
}

// Start creates a session for user and issues its first token pair.
func (m *Manager) Start(ctx context.Context, user *models.User) (*Session, *utils.TokenPair, error) {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		User:      user.Sanitize(),
		CreatedAt: time.Now().UTC(),
	}
	tokens, err := m.issue(ctx, s, user)
	if err != nil {
		return nil, nil, err
	}
	m.logger.Info().Str("user_id", user.ID).Str("session_id", s.ID).Msg("session started")
	return s, tokens, nil
}

func (m *Manager) issue(ctx context.Context, s *Session, user *models.User) (*utils.TokenPair, error) {
	tokens, err := utils.GenerateTokens(user, s.ID, m.cfg)
	if err != nil {
		return nil, err
	}
	s.RefreshTokenID = tokens.RefreshTokenID
	s.ExpiresAt = tokens.RefreshExpiresAt.UTC()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return tokens, nil
}

// Resolve validates an access token and returns its live session.
func (m *Manager) Resolve(ctx context.Context, accessToken string) (*Session, error) {
	claims, err := utils.ValidateToken(accessToken, m.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	s, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != claims.UserID {
		return nil, ErrNoSession
	}
	return s, nil
}

// Refresh rotates the refresh token. Presenting a token other than the most
// recently issued one ends the session.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Session, *utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, m.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, nil, err
	}
	s, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.UserID != claims.UserID {
		return nil, nil, ErrNoSession
	}
	if s.RefreshTokenID != claims.ID {
		m.logger.Warn().Str("session_id", s.ID).Msg("refresh token reuse detected, ending session")
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrRefreshReused
	}

	u, err := m.users.FindByID(ctx, s.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load session user: %w", err)
	}
	s.User = u.Sanitize()
	tokens, err := m.issue(ctx, s, u)
	if err != nil {
		return nil, nil, err
	}
	return s, tokens, nil
}

// Update replaces the user snapshot held by the session.
func (m *Manager) Update(ctx context.Context, s *Session, user *models.User) error {
	s.User = user.Sanitize()
	return m.store.Save(ctx, s)
}

// End removes the session record.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Info().Str("session_id", sessionID).Msg("session ended")
	return nil
}
