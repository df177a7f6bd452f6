package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValidationCache remembers which user a token resolved to.
// Key format: authval:<hex sha256 of the Authorization header value>
// Raw tokens never reach Redis.
type ValidationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValidationCache creates a cache whose entries live for ttl.
func NewValidationCache(client *redis.Client, ttl time.Duration) *ValidationCache {
	return &ValidationCache{client: client, ttl: ttl}
}

// Get returns the cached user id for the header, if present.
func (c *ValidationCache) Get(ctx context.Context, authorization string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(authorization)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("validation cache get: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("validation cache: corrupt entry: %w", err)
	}
	return userID, true, nil
}

// Set records a successful validation.
func (c *ValidationCache) Set(ctx context.Context, authorization string, userID int64) error {
	return c.client.Set(ctx, c.key(authorization), strconv.FormatInt(userID, 10), c.ttl).Err()
}

func (c *ValidationCache) key(authorization string) string {
	sum := sha256.Sum256([]byte(authorization))
	return "authval:" + hex.EncodeToString(sum[:])
}
