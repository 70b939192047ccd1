package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sehat-sathi-server/internal/models"
)

// GormConsultationRepository stores consultations in the relational database.
type GormConsultationRepository struct {
	DB *gorm.DB
}

// NewGormConsultationRepository creates a new GormConsultationRepository.
func NewGormConsultationRepository(db *gorm.DB) *GormConsultationRepository {
	return &GormConsultationRepository{DB: db}
}

func (r *GormConsultationRepository) ListByUser(ctx context.Context, userID string) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("consultations: list for user: %w", err)
	}
	return consultations, nil
}

func (r *GormConsultationRepository) Get(ctx context.Context, userID, id string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.DB.WithContext(ctx).First(&consultation, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consultations: get: %w", err)
	}
	return &consultation, nil
}

func (r *GormConsultationRepository) Append(ctx context.Context, c *models.Consultation) error {
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("consultations: insert: %w", err)
	}
	return nil
}

func (r *GormConsultationRepository) Update(ctx context.Context, c *models.Consultation) error {
	res := r.DB.WithContext(ctx).
		Model(c).
		Where("user_id = ?", c.UserID).
		Select("date", "time", "type", "symptoms", "doctor_preference", "is_emergency", "status", "doctor_name", "meeting_link", "updated_at").
		Updates(c)
	if res.Error != nil {
		return fmt.Errorf("consultations: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormConsultationRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Consultation{})
	if res.Error != nil {
		return fmt.Errorf("consultations: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormConsultationRepository) Clear(ctx context.Context, userID string) error {
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Consultation{}).Error; err != nil {
		return fmt.Errorf("consultations: clear: %w", err)
	}
	return nil
}

func (r *GormConsultationRepository) ListScheduled(ctx context.Context) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := r.DB.WithContext(ctx).Where("status = ?", models.StatusScheduled).Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("consultations: list scheduled: %w", err)
	}
	return consultations, nil
}

// GormPrescriptionRepository stores prescriptions and their medicines.
type GormPrescriptionRepository struct {
	DB *gorm.DB
}

// NewGormPrescriptionRepository creates a new GormPrescriptionRepository.
func NewGormPrescriptionRepository(db *gorm.DB) *GormPrescriptionRepository {
	return &GormPrescriptionRepository{DB: db}
}

func (r *GormPrescriptionRepository) ListByUser(ctx context.Context, userID string) ([]models.Prescription, bool, error) {
	var prescriptions []models.Prescription
	err := r.DB.WithContext(ctx).
		Preload("Medicines").
		Where("user_id = ?", userID).
		Order("sl_no asc").
		Find(&prescriptions).Error
	if err != nil {
		return nil, false, fmt.Errorf("prescriptions: list for user: %w", err)
	}
	return prescriptions, len(prescriptions) > 0, nil
}

func (r *GormPrescriptionRepository) Get(ctx context.Context, userID, id string) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.DB.WithContext(ctx).Preload("Medicines").First(&prescription, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("prescriptions: get: %w", err)
	}
	return &prescription, nil
}

func (r *GormPrescriptionRepository) Append(ctx context.Context, userID string, items []models.Prescription) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].UserID = userID
	}
	if err := r.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("prescriptions: insert: %w", err)
	}
	return nil
}
