// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the live account with the given ID.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByLogin returns the live account whose email or username equals
		login, compared case-insensitively.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict on a taken email or username
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// AttemptLimiter counts failed logins per key inside a sliding window.
type AttemptLimiter interface {
	// Failures returns the current failure count for key.
	Failures(context context.Context, key string) (int, error)

	// RecordFailure increments the count and (re)starts the window.
	RecordFailure(context context.Context, key string) error

	// Reset clears the count after a successful login.
	Reset(context context.Context, key string) error
}
