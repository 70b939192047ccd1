// Package identity resolves login and signup requests to users.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"sehat-sathi-server/internal/models"
)

var (
	ErrPasswordMismatch   = errors.New("passwords don't match")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// LoginRequest carries the login form.
type LoginRequest struct {
	Email    string
	Password string
	UserType models.UserType
}

// SignupRequest carries the signup form.
type SignupRequest struct {
	Name            string
	Email           string
	Mobile          string
	Password        string
	ConfirmPassword string
	UserType        models.UserType
	AbhaID          string
	AadharID        string
}

// Provider turns credentials into a user.
type Provider interface {
	Login(ctx context.Context, req LoginRequest) (*models.User, error)
	Signup(ctx context.Context, req SignupRequest) (*models.User, error)
}

// Profile defaults given to users created from an email address alone.
const (
	DefaultMobile   = "+91 98765 43210"
	DefaultBlock    = "Central Block"
	DefaultDistrict = "New Delhi"
	DefaultState    = "Delhi"
	DefaultDOB      = "1990-01-01"
	DefaultAbhaID   = "12-3456-7890-1234"
	DefaultAadharID = "1234 5678 9012"
)

// NameFromEmail derives a display name from the local part of email: only
// letters are kept and the first one is upper-cased.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	name := []rune(b.String())
	if len(name) == 0 {
		return ""
	}
	name[0] = unicode.ToUpper(name[0])
	return string(name)
}

func userTypeOrPatient(t models.UserType) models.UserType {
	if t.Valid() {
		return t
	}
	return models.UserPatient
}

// MockProvider accepts any credentials. The first login for an email
// fabricates a profile with default values; later logins return it.
type MockProvider struct {
	Users UserStore
}

func NewMockProvider(users UserStore) *MockProvider {
	return &MockProvider{Users: users}
}

func (p *MockProvider) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := p.Users.FindByEmail(ctx, req.Email)
	if err == nil {
		if req.UserType.Valid() && user.UserType != req.UserType {
			user.UserType = req.UserType
			if err := p.Users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("update user type: %w", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		Name:     NameFromEmail(req.Email),
		Email:    req.Email,
		Mobile:   DefaultMobile,
		UserType: userTypeOrPatient(req.UserType),
		Block:    DefaultBlock,
		District: DefaultDistrict,
		State:    DefaultState,
		DOB:      DefaultDOB,
		AbhaID:   DefaultAbhaID,
		AadharID: DefaultAadharID,
	}
	if err := p.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Signup checks the password confirmation and records the form values. An
// existing account for the email is overwritten with them.
func (p *MockProvider) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	user, err := p.Users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		applySignup(user, req)
		if err := p.Users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return user, nil
	case errors.Is(err, ErrUserNotFound):
		user = &models.User{Email: req.Email}
		applySignup(user, req)
		if err := p.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	default:
		return nil, err
	}
}

func applySignup(u *models.User, req SignupRequest) {
	u.Name = strings.TrimSpace(req.Name)
	if u.Name == "" {
		u.Name = NameFromEmail(req.Email)
	}
	u.Mobile = strings.TrimSpace(req.Mobile)
	u.UserType = userTypeOrPatient(req.UserType)
	u.AbhaID = strings.TrimSpace(req.AbhaID)
	u.AadharID = strings.TrimSpace(req.AadharID)
}

// PasswordProvider checks bcrypt password hashes.
type PasswordProvider struct {
	Users UserStore
}

func NewPasswordProvider(users UserStore) *PasswordProvider {
	return &PasswordProvider{Users: users}
}

func (p *PasswordProvider) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := p.Users.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (p *PasswordProvider) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	user := &models.User{Email: req.Email}
	applySignup(user, req)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := p.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
