// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

type memoryRepository struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	avatarErr error
}

func newMemoryRepository(users ...*auth.User) *memoryRepository {
	repo := &memoryRepository{users: map[string]*auth.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repo *memoryRepository) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*auth.User, error) {
	repo.mu.Lock()
	user, ok := repo.users[id]
	if !ok {
		repo.mu.Unlock()
		return nil, apperr.NotFound("User")
	}
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	repo.mu.Unlock()
	return repo.FindByID(ctx, id)
}

func (repo *memoryRepository) SetAvatar(_ context.Context, id, avatarURL string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.avatarErr != nil {
		return "", repo.avatarErr
	}
	user, ok := repo.users[id]
	if !ok {
		return "", apperr.NotFound("User")
	}
	previous := user.AvatarURL
	user.AvatarURL = avatarURL
	return previous, nil
}

func (repo *memoryRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

// memoryFiles records Save/Delete calls without touching disk beyond
// consuming the spool.
type memoryFiles struct {
	saved   []string
	deleted []string
	saveErr error
}

func (files *memoryFiles) Save(file upload.File) (storage.Object, error) {
	if files.saveErr != nil {
		return storage.Object{}, files.saveErr
	}
	if file.Path != "" {
		_ = os.Remove(file.Path)
	}
	key := file.Category.Dir() + "/" + file.Filename
	files.saved = append(files.saved, key)
	return storage.Object{Key: key, URL: "/media/" + key, Size: file.Size}, nil
}

func (files *memoryFiles) Delete(key string) error {
	files.deleted = append(files.deleted, key)
	return nil
}

func (files *memoryFiles) KeyFor(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, "/media/")
	return key, ok && key != ""
}

var errDiskFull = errors.New("no space left on device")
