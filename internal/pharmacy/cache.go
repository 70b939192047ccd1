package pharmacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Position is a reported device location.
type Position struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	CapturedAt time.Time `json:"capturedAt"`
}

// PositionCache remembers the last position reported by each user.
type PositionCache interface {
	Put(ctx context.Context, userID string, pos Position) error
	// Get returns the cached position, or ok=false when none is fresh.
	Get(ctx context.Context, userID string) (pos Position, ok bool, err error)
}

// LocationKey returns the Redis key holding a user's last position.
func LocationKey(userID string) string { return "location-" + userID }

type RedisPositionCache struct {
	client *redis.Client
	maxAge time.Duration
}

func NewRedisPositionCache(client *redis.Client, maxAge time.Duration) *RedisPositionCache {
	return &RedisPositionCache{client: client, maxAge: maxAge}
}

func (c *RedisPositionCache) Put(ctx context.Context, userID string, pos Position) error {
	raw, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return c.client.Set(ctx, LocationKey(userID), raw, c.maxAge).Err()
}

func (c *RedisPositionCache) Get(ctx context.Context, userID string) (Position, bool, error) {
	raw, err := c.client.Get(ctx, LocationKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, err
	}
	var pos Position
	if err := json.Unmarshal(raw, &pos); err != nil {
		return Position{}, false, fmt.Errorf("decode position: %w", err)
	}
	return pos, true, nil
}

type MemoryPositionCache struct {
	mu        sync.Mutex
	positions map[string]Position
	maxAge    time.Duration
	now       func() time.Time
}

func NewMemoryPositionCache(maxAge time.Duration) *MemoryPositionCache {
	return &MemoryPositionCache{positions: make(map[string]Position), maxAge: maxAge, now: time.Now}
}

func (c *MemoryPositionCache) Put(_ context.Context, userID string, pos Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[userID] = pos
	return nil
}

func (c *MemoryPositionCache) Get(_ context.Context, userID string) (Position, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.positions[userID]
	if !ok {
		return Position{}, false, nil
	}
	if c.now().Sub(pos.CapturedAt) > c.maxAge {
		delete(c.positions, userID)
		return Position{}, false, nil
	}
	return pos, true, nil
}
