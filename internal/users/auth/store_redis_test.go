// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cadenza/internal/platform/constants"
)

// fakeRedis keeps counters in memory and implements the commands the limiter sends.
type fakeRedis struct {
	redis.Cmdable

	counters map[string]int64
	ttls     map[string]time.Duration
	execs    int
	err      error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counters: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (fake *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if fake.err != nil {
		return redis.NewStringResult("", fake.err)
	}
	count, ok := fake.counters[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(count, 10), nil)
}

func (fake *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if fake.err != nil {
		return redis.NewIntResult(0, fake.err)
	}
	var removed int64
	for _, key := range keys {
		if _, ok := fake.counters[key]; ok {
			removed++
		}
		delete(fake.counters, key)
		delete(fake.ttls, key)
	}
	return redis.NewIntResult(removed, nil)
}

// TxPipelined queues the callback's commands and applies them together, like MULTI/EXEC.
func (fake *fakeRedis) TxPipelined(_ context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	pipe := &fakePipe{}
	if err := fn(pipe); err != nil {
		return nil, err
	}
	if fake.err != nil {
		return nil, fake.err
	}

	fake.execs++
	for _, op := range pipe.queued {
		op(fake)
	}
	return nil, nil
}

type fakePipe struct {
	redis.Pipeliner
	queued []func(*fakeRedis)
}

func (pipe *fakePipe) Incr(_ context.Context, key string) *redis.IntCmd {
	pipe.queued = append(pipe.queued, func(fake *fakeRedis) { fake.counters[key]++ })
	return redis.NewIntResult(0, nil)
}

func (pipe *fakePipe) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	pipe.queued = append(pipe.queued, func(fake *fakeRedis) { fake.ttls[key] = ttl })
	return redis.NewBoolResult(true, nil)
}

/*
TestRedisAttemptLimiter_Counts increments one key per login in a single
transaction and refreshes its window each time.
*/
func TestRedisAttemptLimiter_Counts(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	limiter := NewAttemptLimiter(fake, 15*time.Minute)

	count, err := limiter.Failures(ctx, "clara@example.com")
	require.NoError(t, err)
	assert.Zero(t, count, "missing key counts as zero")

	require.NoError(t, limiter.RecordFailure(ctx, "clara@example.com"))
	require.NoError(t, limiter.RecordFailure(ctx, "  Clara@Example.com "))

	count, err = limiter.Failures(ctx, "CLARA@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	key := constants.RedisPrefixLoginFailures + "clara@example.com"
	assert.Equal(t, int64(2), fake.counters[key])
	assert.Equal(t, 15*time.Minute, fake.ttls[key])
	assert.Equal(t, 2, fake.execs, "one round trip per failure")

	count, err = limiter.Failures(ctx, "someone-else")
	require.NoError(t, err)
	assert.Zero(t, count)
}

/*
TestRedisAttemptLimiter_Reset clears the counter so the next read is zero.
*/
func TestRedisAttemptLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	limiter := NewAttemptLimiter(fake, time.Minute)

	require.NoError(t, limiter.RecordFailure(ctx, "clara"))
	require.NoError(t, limiter.Reset(ctx, "Clara"))

	count, err := limiter.Failures(ctx, "clara")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, fake.ttls)

	require.NoError(t, limiter.Reset(ctx, "never-failed"), "resetting a missing key is fine")
}

/*
TestRedisAttemptLimiter_StoreErrors wraps every store failure; only redis.Nil
is treated as an empty counter.
*/
func TestRedisAttemptLimiter_StoreErrors(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("dial tcp: connection refused")
	fake := newFakeRedis()
	fake.err = outage
	limiter := NewAttemptLimiter(fake, time.Minute)

	_, err := limiter.Failures(ctx, "clara")
	require.ErrorIs(t, err, outage)
	assert.Contains(t, err.Error(), "redis_login_failures_get_failed")

	err = limiter.RecordFailure(ctx, "clara")
	require.ErrorIs(t, err, outage)
	assert.Contains(t, err.Error(), "redis_login_failures_incr_failed")

	err = limiter.Reset(ctx, "clara")
	require.ErrorIs(t, err, outage)
	assert.Contains(t, err.Error(), "redis_login_failures_del_failed")
}
