package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sehat-sathi-server/internal/models"
)

// Writes watch the list key and retry this many times before giving up.
const maxWatchRetries = 5

// ConsultationsKey is the key holding a user's consultation list.
func ConsultationsKey(userID string) string { return "consultations-" + userID }

// PrescriptionsKey is the key holding a user's prescription list.
func PrescriptionsKey(userID string) string { return "prescriptions-" + userID }

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func loadList[T any](ctx context.Context, r stringGetter, key string) ([]T, bool, error) {
	raw, err := r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, true, nil
}

// updateList performs a watched read-modify-write of the whole list.
func updateList[T any](ctx context.Context, client *redis.Client, key string, fn func([]T) ([]T, error)) error {
	txf := func(tx *redis.Tx) error {
		items, _, err := loadList[T](ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(items)
		if err != nil {
			return err
		}
		if next == nil {
			next = []T{}
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConcurrentUpdate
}

// RedisConsultationRepository stores each user's consultations as one JSON
// array under ConsultationsKey.
type RedisConsultationRepository struct {
	client *redis.Client
}

func NewRedisConsultationRepository(client *redis.Client) *RedisConsultationRepository {
	return &RedisConsultationRepository{client: client}
}

func (r *RedisConsultationRepository) ListByUser(ctx context.Context, userID string) ([]models.Consultation, error) {
	items, _, err := loadList[models.Consultation](ctx, r.client, ConsultationsKey(userID))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Consultation{}
	}
	return items, nil
}

func (r *RedisConsultationRepository) Get(ctx context.Context, userID, id string) (*models.Consultation, error) {
	items, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *RedisConsultationRepository) Append(ctx context.Context, c *models.Consultation) error {
	return updateList(ctx, r.client, ConsultationsKey(c.UserID), func(items []models.Consultation) ([]models.Consultation, error) {
		return append(items, *c), nil
	})
}

func (r *RedisConsultationRepository) Update(ctx context.Context, c *models.Consultation) error {
	return updateList(ctx, r.client, ConsultationsKey(c.UserID), func(items []models.Consultation) ([]models.Consultation, error) {
		for i := range items {
			if items[i].ID == c.ID {
				items[i] = *c
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *RedisConsultationRepository) Delete(ctx context.Context, userID, id string) error {
	return updateList(ctx, r.client, ConsultationsKey(userID), func(items []models.Consultation) ([]models.Consultation, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *RedisConsultationRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, ConsultationsKey(userID)).Err(); err != nil {
		return fmt.Errorf("consultations: clear: %w", err)
	}
	return nil
}

func (r *RedisConsultationRepository) ListScheduled(ctx context.Context) ([]models.Consultation, error) {
	var out []models.Consultation
	iter := r.client.Scan(ctx, 0, ConsultationsKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		items, _, err := loadList[models.Consultation](ctx, r.client, iter.Val())
		if err != nil {
			return nil, err
		}
		for _, c := range items {
			if c.Status == models.StatusScheduled {
				out = append(out, c)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("consultations: scan: %w", err)
	}
	return out, nil
}

// RedisPrescriptionRepository stores each user's prescriptions as one JSON
// array under PrescriptionsKey.
type RedisPrescriptionRepository struct {
	client *redis.Client
}

func NewRedisPrescriptionRepository(client *redis.Client) *RedisPrescriptionRepository {
	return &RedisPrescriptionRepository{client: client}
}

func (r *RedisPrescriptionRepository) ListByUser(ctx context.Context, userID string) ([]models.Prescription, bool, error) {
	items, found, err := loadList[models.Prescription](ctx, r.client, PrescriptionsKey(userID))
	if err != nil {
		return nil, false, err
	}
	for i := range items {
		items[i].UserID = userID
	}
	return items, found, nil
}

func (r *RedisPrescriptionRepository) Get(ctx context.Context, userID, id string) (*models.Prescription, error) {
	items, _, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *RedisPrescriptionRepository) Append(ctx context.Context, userID string, items []models.Prescription) error {
	return updateList(ctx, r.client, PrescriptionsKey(userID), func(existing []models.Prescription) ([]models.Prescription, error) {
		return append(existing, items...), nil
	})
}
