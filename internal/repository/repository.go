// Package repository stores the per-user record lists behind small
// interfaces so booking and record logic never touch a concrete backend.
package repository

import (
	"context"
	"errors"

	"sehat-sathi-server/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist for the user.
	ErrNotFound = errors.New("record not found")
	// ErrConcurrentUpdate is returned when an optimistic write kept losing races.
	ErrConcurrentUpdate = errors.New("record list modified concurrently")
)

// ConsultationRepository persists consultations scoped by user id.
type ConsultationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Consultation, error)
	Get(ctx context.Context, userID, id string) (*models.Consultation, error)
	Append(ctx context.Context, c *models.Consultation) error
	Update(ctx context.Context, c *models.Consultation) error
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
	// ListScheduled returns scheduled consultations across all users.
	ListScheduled(ctx context.Context) ([]models.Consultation, error)
}

// PrescriptionRepository persists prescriptions scoped by user id.
type PrescriptionRepository interface {
	// ListByUser reports found=false when the user has no stored collection yet.
	ListByUser(ctx context.Context, userID string) (items []models.Prescription, found bool, err error)
	Get(ctx context.Context, userID, id string) (*models.Prescription, error)
	Append(ctx context.Context, userID string, items []models.Prescription) error
}

func cloneConsultation(c models.Consultation) models.Consultation {
	if c.MeetingLink != nil {
		link := *c.MeetingLink
		c.MeetingLink = &link
	}
	return c
}

func clonePrescription(p models.Prescription) models.Prescription {
	if p.Medicines != nil {
		p.Medicines = append([]models.Medicine(nil), p.Medicines...)
	}
	return p
}
