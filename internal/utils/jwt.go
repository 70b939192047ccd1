package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sehat-sathi-server/internal/config"
	"sehat-sathi-server/internal/models"
)

// Claims represents the JWT claims. RegisteredClaims.ID identifies a single
// refresh token so rotation can detect reuse.
type Claims struct {
	UserID    string          `json:"user_id"`
	SessionID string          `json:"session_id"`
	UserType  models.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of issuing tokens for a session.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshTokenID   string    `json:"-"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"-"`
}

// GenerateTokens generates both access and refresh tokens for a user session.
func GenerateTokens(user *models.User, sessionID string, cfg *config.Config) (*TokenPair, error) {
	now := time.Now()
	pair := &TokenPair{
		RefreshTokenID:   uuid.NewString(),
		AccessExpiresAt:  now.Add(time.Duration(cfg.JWTExpirationMinutes) * time.Minute),
		RefreshExpiresAt: now.Add(time.Duration(cfg.JWTRefreshExpirationHours) * time.Hour),
	}

	var err error
	pair.AccessToken, err = signToken(user, sessionID, uuid.NewString(), now, pair.AccessExpiresAt, cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	pair.RefreshToken, err = signToken(user, sessionID, pair.RefreshTokenID, now, pair.RefreshExpiresAt, cfg.JWTRefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return pair, nil
}

func signToken(user *models.User, sessionID, tokenID string, issuedAt, expiresAt time.Time, secret string) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		SessionID: sessionID,
		UserType:  user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
