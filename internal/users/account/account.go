// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account lets an authenticated member read and edit their own profile.

# Security

Every endpoint except the public profile lookup sits behind the Protect
middleware; the caller is always taken from the request identity, never
from the URL.
*/
package account

import (
	"context"

	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

// # Domain Constants

const (
	// FieldBio is the JSON field for the biography.
	FieldBio = "bio"

	// BioMaxLength caps the biography.
	BioMaxLength = 500

	// DisplayNameMinLength is the shortest accepted display name.
	DisplayNameMinLength = 2
)

// # Profile Types

// PublicProfile is the subset of an account visible to other members.
type PublicProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Role        string `json:"role"`
}

// newPublicProfile strips private fields from user.
func newPublicProfile(user *auth.User) *PublicProfile {
	return &PublicProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		Role:        string(user.Role),
	}
}

// UpdateProfileInput carries a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
}

// # Contracts

// Repository is the persistence contract for profile data.
type Repository interface {
	FindByID(context context.Context, id string) (*auth.User, error)

	// UpdateProfile applies the non-nil fields of input and returns the new row.
	UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*auth.User, error)

	// SetAvatar stores avatarURL and returns the URL it replaced.
	SetAvatar(context context.Context, id, avatarURL string) (previous string, err error)

	// SoftDelete marks the account deleted; tokens for it stop resolving.
	SoftDelete(context context.Context, id string) error
}

// FileStore is the subset of [storage.Store] used for avatars.
type FileStore interface {
	Save(file upload.File) (storage.Object, error)
	Delete(key string) error
	KeyFor(url string) (string, bool)
}
