package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/config"
	"sehat-sathi-server/internal/identity"
	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/records"
	"sehat-sathi-server/internal/session"
	"sehat-sathi-server/internal/utils"
)

// AuthHandler handles authentication and profile requests.
type AuthHandler struct {
	Provider identity.Provider
	Users    identity.UserStore
	Sessions *session.Manager
	Records  *records.HealthRecordStore
	Cfg      *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider identity.Provider, users identity.UserStore, sessions *session.Manager, recordStore *records.HealthRecordStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Provider: provider, Users: users, Sessions: sessions, Records: recordStore, Cfg: cfg}
}

// SignupRequest represents the request body for user registration.
type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Mobile          string `json:"mobile" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	UserType        string `json:"userType" binding:"omitempty,oneof=patient doctor"`
	AbhaID          string `json:"abhaId"`
	AadharID        string `json:"aadharId"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType" binding:"omitempty,oneof=patient doctor"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	SessionID    string               `json:"sessionId"`
	User         models.UserSanitized `json:"user"`
}

// Signup registers a user and starts a session.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Provider.Signup(c.Request.Context(), identity.SignupRequest{
		Name:            req.Name,
		Email:           req.Email,
		Mobile:          req.Mobile,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        models.UserType(req.UserType),
		AbhaID:          req.AbhaID,
		AadharID:        req.AadharID,
	})
	switch {
	case errors.Is(err, identity.ErrPasswordMismatch):
		utils.BadRequest(c, "Passwords don't match!")
		return
	case errors.Is(err, identity.ErrEmailTaken):
		utils.Conflict(c, "User with this email already exists")
		return
	case err != nil:
		utils.InternalServerError(c, "Failed to register user: "+err.Error())
		return
	}

	resp, ok := h.startSession(c, user)
	if !ok {
		return
	}
	utils.Created(c, "User registered successfully", resp)
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Provider.Login(c.Request.Context(), identity.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		UserType: models.UserType(req.UserType),
	})
	if errors.Is(err, identity.ErrInvalidCredentials) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Login failed: "+err.Error())
		return
	}

	resp, ok := h.startSession(c, user)
	if !ok {
		return
	}
	utils.Success(c, "Login successful", resp)
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (*LoginResponse, bool) {
	s, tokens, err := h.Sessions.Start(c.Request.Context(), user)
	if err != nil {
		utils.InternalServerError(c, "Failed to start session: "+err.Error())
		return nil, false
	}
	h.setRefreshCookie(c, tokens.RefreshToken, h.Cfg.JWTRefreshExpirationHours*60*60)
	return &LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		SessionID:    s.ID,
		User:         s.User,
	}, true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(
		"refresh_token",
		value,
		maxAge,
		"/",
		"",
		!h.Cfg.IsDevelopment(), // Secure outside development
		true,
	)
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token of a session.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	// First try to get the refresh token from HTTP-only cookie
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	_, tokens, err := h.Sessions.Refresh(c.Request.Context(), token)
	switch {
	case errors.Is(err, session.ErrRefreshReused):
		h.setRefreshCookie(c, "", -1)
		utils.Unauthorized(c, "Refresh token has already been used; please log in again")
		return
	case errors.Is(err, session.ErrNoSession):
		utils.Unauthorized(c, "not authenticated")
		return
	case err != nil:
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, h.Cfg.JWTRefreshExpirationHours*60*60)
	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.Sessions.End(c.Request.Context(), s.ID); err != nil {
		utils.InternalServerError(c, "Failed to end session: "+err.Error())
		return
	}
	h.Records.Forget(s.UserID)
	h.setRefreshCookie(c, "", -1)
	utils.Success(c, "Logout successful", nil)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, identity.ErrUserNotFound) {
		utils.NotFound(c, "User profile not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest holds the profile fields that may be edited. Omitted
// fields keep their current value.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Mobile   *string `json:"mobile"`
	Block    *string `json:"block"`
	District *string `json:"district"`
	State    *string `json:"state"`
	DOB      *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	AbhaID   *string `json:"abhaId"`
	AadharID *string `json:"aadharId"`
	Avatar   *string `json:"avatar"`
}

func (r UpdateProfileRequest) apply(u *models.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.Name, r.Name)
	set(&u.Mobile, r.Mobile)
	set(&u.Block, r.Block)
	set(&u.District, r.District)
	set(&u.State, r.State)
	set(&u.DOB, r.DOB)
	set(&u.AbhaID, r.AbhaID)
	set(&u.AadharID, r.AadharID)
	set(&u.Avatar, r.Avatar)
}

// UpdateProfile merges the supplied fields into the user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		utils.Unauthorized(c, "not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.FindByID(ctx, s.UserID)
	if err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	req.apply(user)
	if err := h.Users.Update(ctx, user); err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}
	if err := h.Sessions.Update(ctx, s, user); err != nil {
		utils.InternalServerError(c, "Failed to update session: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
