// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cadenza/internal/platform/constants"
)

// RedisAttemptLimiter implements [AttemptLimiter] with one counter key per login.
type RedisAttemptLimiter struct {
	client redis.Cmdable
	window time.Duration
}

// NewAttemptLimiter creates a limiter whose counters expire after window.
func NewAttemptLimiter(client redis.Cmdable, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, window: window}
}

func (limiter *RedisAttemptLimiter) key(login string) string {
	return constants.RedisPrefixLoginFailures + strings.ToLower(strings.TrimSpace(login))
}

/*
Failures returns the number of failures recorded for login in the window.
A missing key counts as zero.
*/
func (limiter *RedisAttemptLimiter) Failures(context context.Context, login string) (int, error) {
	count, err := limiter.client.Get(context, limiter.key(login)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_failures_get_failed: %w", err)
	}
	return count, nil
}

/*
RecordFailure increments the counter and resets its TTL in one round trip.
*/
func (limiter *RedisAttemptLimiter) RecordFailure(context context.Context, login string) error {
	key := limiter.key(login)

	_, err := limiter.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, key)
		pipe.Expire(context, key, limiter.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_login_failures_incr_failed: %w", err)
	}
	return nil
}

/*
Reset removes the counter for login.
*/
func (limiter *RedisAttemptLimiter) Reset(context context.Context, login string) error {
	if err := limiter.client.Del(context, limiter.key(login)).Err(); err != nil {
		return fmt.Errorf("redis_login_failures_del_failed: %w", err)
	}
	return nil
}
