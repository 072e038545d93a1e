// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huyld/adminkit/internal/platform/constants"
)

// RedisThrottleRepository implements [ThrottleRepository] using Redis.
//
// Counters live under the login-throttle prefix and expire on their own, so
// an abandoned attack leaves no permanent state behind.
type RedisThrottleRepository struct {
	client *redis.Client
}

// NewThrottleRepository creates a new Redis-backed ThrottleRepository.
func NewThrottleRepository(client *redis.Client) *RedisThrottleRepository {
	return &RedisThrottleRepository{client: client}
}

/*
Attempts returns the current failure count for the key.

A missing key counts as zero failures.
*/
func (repository *RedisThrottleRepository) Attempts(ctx context.Context, key string) (int, error) {
	count, err := repository.client.Get(ctx, constants.LoginThrottlePrefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_throttle_get_failed: %w", err)
	}
	return count, nil
}

/*
RecordFailure increments the failure counter and refreshes its window.

INCR and EXPIRE run in a single pipeline; the window slides forward on every
failure, so sustained guessing never escapes the counter.
*/
func (repository *RedisThrottleRepository) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	fullKey := constants.LoginThrottlePrefix + key

	pipe := repository.client.TxPipeline()
	increment := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis_throttle_incr_failed: %w", err)
	}

	return int(increment.Val()), nil
}

// Reset clears the counter after a successful login.
func (repository *RedisThrottleRepository) Reset(ctx context.Context, key string) error {
	if err := repository.client.Del(ctx, constants.LoginThrottlePrefix+key).Err(); err != nil {
		return fmt.Errorf("redis_throttle_reset_failed: %w", err)
	}
	return nil
}
