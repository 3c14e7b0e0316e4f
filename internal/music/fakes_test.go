// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package music

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/pkg/pagination"
)

type memoryTracks struct {
	mu        sync.Mutex
	tracks    map[string]*Track
	createErr error
}

func newMemoryTracks() *memoryTracks {
	return &memoryTracks{tracks: map[string]*Track{}}
}

func (repo *memoryTracks) Create(_ context.Context, track *Track) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.createErr != nil {
		return repo.createErr
	}
	repo.tracks[track.ID] = track
	return nil
}

func (repo *memoryTracks) List(_ context.Context, params pagination.Params) ([]*Track, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	all := make([]*Track, 0, len(repo.tracks))
	for _, track := range repo.tracks {
		all = append(all, track)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := min(params.Offset(), len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], len(all), nil
}

func (repo *memoryTracks) FindByID(_ context.Context, id string) (*Track, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	track, ok := repo.tracks[id]
	if !ok {
		return nil, apperr.NotFound("Track")
	}
	return track, nil
}

func (repo *memoryTracks) SoftDelete(_ context.Context, id string) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	track, ok := repo.tracks[id]
	if !ok {
		return nil, apperr.NotFound("Track")
	}
	delete(repo.tracks, id)

	keys := make([]string, 0, len(track.Assets))
	for _, asset := range track.Assets {
		keys = append(keys, asset.Key)
	}
	return keys, nil
}

type memoryFiles struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failOn  string
}

func (files *memoryFiles) Save(file upload.File) (storage.Object, error) {
	files.mu.Lock()
	defer files.mu.Unlock()
	if file.Filename == files.failOn {
		return storage.Object{}, errors.New("disk full")
	}
	if file.Path != "" {
		_ = os.Remove(file.Path)
	}
	key := file.Category.Dir() + "/" + file.Filename
	files.saved = append(files.saved, key)
	return storage.Object{Key: key, URL: files.URL(key), Size: file.Size}, nil
}

func (files *memoryFiles) Delete(key string) error {
	files.mu.Lock()
	defer files.mu.Unlock()
	files.deleted = append(files.deleted, key)
	return nil
}

func (files *memoryFiles) URL(key string) string {
	return "/media/" + key
}
