// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

// Service implements profile use cases.
type Service struct {
	repository Repository
	files      FileStore
}

// NewService constructs an account [Service].
func NewService(repository Repository, files FileStore) *Service {
	return &Service{repository: repository, files: files}
}

// GetProfile returns the caller's full account.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.repository.FindByID(context, userID)
}

// GetPublicProfile returns what other members may see of an account.
func (service *Service) GetPublicProfile(context context.Context, userID string) (*PublicProfile, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return newPublicProfile(user), nil
}

// UpdateProfile applies a partial update.
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	if input.DisplayName == nil && input.Bio == nil {
		return service.repository.FindByID(context, userID)
	}
	return service.repository.UpdateProfile(context, userID, input)
}

/*
ReplaceAvatar moves an already validated image into storage and points the
account at it.

The previous avatar is removed only after the row is updated; a failed
update removes the new file instead.
*/
func (service *Service) ReplaceAvatar(context context.Context, userID string, file upload.File) (*auth.User, error) {
	if file.Category != upload.CategoryImage {
		return nil, apperr.ValidationError("Avatar must be an image")
	}

	object, err := service.files.Save(file)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	previous, err := service.repository.SetAvatar(context, userID, object.URL)
	if err != nil {
		service.discard(context, object.Key)
		return nil, err
	}

	if key, ok := service.files.KeyFor(previous); ok {
		service.discard(context, key)
	}

	return service.repository.FindByID(context, userID)
}

// DeleteAccount soft-deletes the caller.
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	return service.repository.SoftDelete(context, userID)
}

func (service *Service) discard(context context.Context, key string) {
	if err := service.files.Delete(key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "avatar_cleanup_failed",
			slog.String("key", key), slog.Any("error", err))
	}
}
