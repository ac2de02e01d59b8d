package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"airline/src/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var redisClient *redis.Client

// GetRedisClient returns the shared client, or nil when REDIS_URL is not
// configured. Callers must treat a nil client as "cache disabled".
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.WithError(err).Warn("[redis] error parsing connection string")
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient replaces the shared instance with a custom client.
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

const availabilityTTL = 30 * time.Second

func availabilityCacheKey(flightID uint) string {
	return fmt.Sprintf("availability:%d", flightID)
}

// CachedAvailability reads the availability snapshot from redis. A miss,
// a disabled cache and a decode error all return nil.
func CachedAvailability(ctx context.Context, flightID uint) *models.Availability {
	rdb := GetRedisClient()
	if rdb == nil {
		return nil
	}
	raw, err := rdb.Get(ctx, availabilityCacheKey(flightID)).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("[redis] availability read failed")
		}
		return nil
	}
	var snapshot models.Availability
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

// CacheAvailability stores a snapshot with a short TTL. Snapshots are
// advisory; commits invalidate them.
func CacheAvailability(ctx context.Context, snapshot *models.Availability) {
	rdb := GetRedisClient()
	if rdb == nil || snapshot == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := rdb.SetEx(ctx, availabilityCacheKey(snapshot.FlightID), string(raw), availabilityTTL).Err(); err != nil {
		logrus.WithError(err).Warn("[redis] availability write failed")
	}
}

// InvalidateAvailability drops the cached snapshot after a booking or
// cancellation commit.
func InvalidateAvailability(ctx context.Context, flightID uint) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, availabilityCacheKey(flightID)).Err(); err != nil {
		logrus.WithError(err).Warn("[redis] availability invalidation failed")
	}
}
