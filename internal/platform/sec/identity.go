// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

// MsgNotAuthorized is the single outward message for every token or identity
// failure. Deleted accounts and forged tokens must be indistinguishable.
const MsgNotAuthorized = "Not authorized to access this route"

// ErrIdentityNotFound may be returned by an [IdentityStore] when no identity exists.
var ErrIdentityNotFound = errors.New("sec: identity not found")

// Identity is the authenticated caller attached to a request.
//
// It never carries credential material; stores must drop the password hash
// before handing an Identity out.
type Identity struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// IdentityStore is the read contract the resolver needs from the user store.
type IdentityStore interface {
	// FindIdentity loads the identity for id. A missing identity is reported
	// as [ErrIdentityNotFound] or an apperr NOT_FOUND error.
	FindIdentity(ctx context.Context, id string) (*Identity, error)
}

// IdentityResolver maps a verified token subject to a live [Identity].
type IdentityResolver struct {
	store IdentityStore
}

// NewIdentityResolver creates a resolver over the given store.
func NewIdentityResolver(store IdentityStore) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// Resolve performs exactly one store read for subjectID.
//
// A miss becomes Unauthorized (same message as an invalid token). Any other
// store failure becomes an Internal error. Nothing is retried.
func (resolver *IdentityResolver) Resolve(ctx context.Context, subjectID string) (*Identity, error) {
	if subjectID == "" {
		return nil, apperr.Unauthorized(MsgNotAuthorized)
	}

	identity, err := resolver.store.FindIdentity(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(MsgNotAuthorized)
		}
		return nil, apperr.Internal(fmt.Errorf("sec: resolve identity: %w", err))
	}

	if identity == nil || !identity.Role.Valid() {
		return nil, apperr.Unauthorized(MsgNotAuthorized)
	}

	return identity, nil
}
