// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

// memoryUsers is an in-memory [UserRepository].
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryUsers(users ...*User) *memoryUsers {
	repo := &memoryUsers{users: map[string]*User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) FindByLogin(_ context.Context, login string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, login) || strings.EqualFold(user.Username, login) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) Create(_ context.Context, user *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email is already registered")
		}
		if strings.EqualFold(existing.Username, user.Username) {
			return apperr.Conflict("Username is already taken")
		}
	}
	repo.users[user.ID] = user
	return nil
}

// memoryLimiter is an in-memory [AttemptLimiter].
type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int{}}
}

func (limiter *memoryLimiter) Failures(_ context.Context, key string) (int, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return 0, limiter.err
	}
	return limiter.counts[strings.ToLower(key)], nil
}

func (limiter *memoryLimiter) RecordFailure(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return limiter.err
	}
	limiter.counts[strings.ToLower(key)]++
	return nil
}

func (limiter *memoryLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return limiter.err
	}
	delete(limiter.counts, strings.ToLower(key))
	return nil
}

// failingIssuer always refuses to sign.
type failingIssuer struct{}

func (failingIssuer) GenerateAccessToken(string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("signer offline")
}
