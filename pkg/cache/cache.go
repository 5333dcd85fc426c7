package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// ErrMiss is returned when no cached snapshot exists for the unit
var ErrMiss = errors.New("cache miss")

const snapshotTTL = 5 * time.Minute

// SnapshotCache keeps the latest readiness snapshot per unit in Redis so
// read requests between evaluation cycles avoid recomputation. A nil
// cache (Redis not configured) is valid and misses on every read.
type SnapshotCache struct {
	client *redis.Client
	ctx    context.Context
}

// New connects to Redis using REDIS_ADDR. Returns nil when REDIS_ADDR is
// unset; callers treat a nil cache as always-miss.
func New() *SnapshotCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	return &SnapshotCache{
		client: client,
		ctx:    context.Background(),
	}
}

func snapshotKey(unitID string) string {
	return "readiness:unit:" + unitID
}

// SetSnapshot caches the latest snapshot for its unit
func (c *SnapshotCache) SetSnapshot(snap models.UnitReadinessSnapshot) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, snapshotKey(snap.UnitID), payload, snapshotTTL).Err()
}

// GetSnapshot returns the cached snapshot for a unit, or ErrMiss
func (c *SnapshotCache) GetSnapshot(unitID string) (models.UnitReadinessSnapshot, error) {
	var snap models.UnitReadinessSnapshot
	if c == nil {
		return snap, ErrMiss
	}
	val, err := c.client.Get(c.ctx, snapshotKey(unitID)).Result()
	if errors.Is(err, redis.Nil) {
		return snap, ErrMiss
	}
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// DeleteSnapshot drops the cached snapshot for a unit, e.g. after the
// unit is removed
func (c *SnapshotCache) DeleteSnapshot(unitID string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(c.ctx, snapshotKey(unitID)).Err()
}
