package models

import (
	"golang.org/x/crypto/bcrypt"
)

// UserType enum
type UserType string

const (
	UserPatient UserType = "patient"
	UserDoctor  UserType = "doctor"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserPatient || t == UserDoctor
}

// User represents a user in the system
type User struct {
	BaseModel
	Email    string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string   `gorm:"size:255" json:"-"` // Never send password in JSON
	Name     string   `gorm:"size:100" json:"name"`
	Mobile   string   `gorm:"size:20" json:"mobile"`
	UserType UserType `gorm:"size:10;default:'patient'" json:"userType"`
	Block    string   `gorm:"size:100" json:"block,omitempty"`
	District string   `gorm:"size:100" json:"district,omitempty"`
	State    string   `gorm:"size:100" json:"state,omitempty"`
	DOB      string   `gorm:"size:10" json:"dob,omitempty"`
	AbhaID   string   `gorm:"size:20" json:"abhaId,omitempty"`
	AadharID string   `gorm:"size:20" json:"aadharId,omitempty"`
	Avatar   string   `gorm:"size:255" json:"avatar,omitempty"`

	Consultations []Consultation `gorm:"foreignKey:UserID" json:"-"`
	Prescriptions []Prescription `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Mobile   string   `json:"mobile"`
	UserType UserType `json:"userType"`
	Block    string   `json:"block,omitempty"`
	District string   `json:"district,omitempty"`
	State    string   `json:"state,omitempty"`
	DOB      string   `json:"dob,omitempty"`
	AbhaID   string   `json:"abhaId,omitempty"`
	AadharID string   `json:"aadharId,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Mobile:   u.Mobile,
		UserType: u.UserType,
		Block:    u.Block,
		District: u.District,
		State:    u.State,
		DOB:      u.DOB,
		AbhaID:   u.AbhaID,
		AadharID: u.AadharID,
		Avatar:   u.Avatar,
	}
}
