package repository

import (
	"context"
	"sync"

	"sehat-sathi-server/internal/models"
)

// MemoryConsultationRepository keeps consultations in process memory.
type MemoryConsultationRepository struct {
	mu    sync.RWMutex
	users map[string][]models.Consultation
}

func NewMemoryConsultationRepository() *MemoryConsultationRepository {
	return &MemoryConsultationRepository{users: make(map[string][]models.Consultation)}
}

func (r *MemoryConsultationRepository) ListByUser(_ context.Context, userID string) ([]models.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.users[userID]
	out := make([]models.Consultation, 0, len(stored))
	for _, c := range stored {
		out = append(out, cloneConsultation(c))
	}
	return out, nil
}

func (r *MemoryConsultationRepository) Get(_ context.Context, userID, id string) (*models.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.users[userID] {
		if c.ID == id {
			found := cloneConsultation(c)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryConsultationRepository) Append(_ context.Context, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[c.UserID] = append(r.users[c.UserID], cloneConsultation(*c))
	return nil
}

func (r *MemoryConsultationRepository) Update(_ context.Context, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.users[c.UserID]
	for i := range list {
		if list[i].ID == c.ID {
			list[i] = cloneConsultation(*c)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryConsultationRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.users[userID]
	for i := range list {
		if list[i].ID == id {
			r.users[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryConsultationRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *MemoryConsultationRepository) ListScheduled(_ context.Context) ([]models.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Consultation
	for _, list := range r.users {
		for _, c := range list {
			if c.Status == models.StatusScheduled {
				out = append(out, cloneConsultation(c))
			}
		}
	}
	return out, nil
}

// MemoryPrescriptionRepository keeps prescriptions in process memory.
type MemoryPrescriptionRepository struct {
	mu    sync.RWMutex
	users map[string][]models.Prescription
}

func NewMemoryPrescriptionRepository() *MemoryPrescriptionRepository {
	return &MemoryPrescriptionRepository{users: make(map[string][]models.Prescription)}
}

func (r *MemoryPrescriptionRepository) ListByUser(_ context.Context, userID string) ([]models.Prescription, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, found := r.users[userID]
	out := make([]models.Prescription, 0, len(stored))
	for _, p := range stored {
		out = append(out, clonePrescription(p))
	}
	return out, found, nil
}

func (r *MemoryPrescriptionRepository) Get(_ context.Context, userID, id string) (*models.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.users[userID] {
		if p.ID == id {
			found := clonePrescription(p)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPrescriptionRepository) Append(_ context.Context, userID string, items []models.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.users[userID]
	for _, p := range items {
		p.UserID = userID
		list = append(list, clonePrescription(p))
	}
	r.users[userID] = list
	return nil
}
