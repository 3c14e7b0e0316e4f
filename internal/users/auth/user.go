// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, credential login and the
identity store that backs bearer-token resolution.

# Architecture

  - Entity: [User] is the stored account row, including the password hash.
  - Store: Postgres for accounts, Redis for failed-login counters.
  - Service: Register, Login and Me use cases.
  - Handler: the /api/v1/auth routes.

Only [User.Identity] crosses into the request pipeline, and it never carries
the hash.
*/
package auth

import (
	"time"

	"github.com/taibuivan/cadenza/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Cadenza platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the account onto the request identity, dropping the hash.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:          user.ID,
		Role:        user.Role,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldRole        = "role"
	FieldLogin       = "login"
)

// # Constraints

const (
	UsernameMinLength    = 3
	UsernameMaxLength    = 32
	PasswordMinLength    = 8
	PasswordMaxLength    = 72 // bcrypt ignores anything longer
	DisplayNameMaxLength = 64
)

// MsgInvalidCredentials is shared by every login failure.
const MsgInvalidCredentials = "Invalid login credentials"
