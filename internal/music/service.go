// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package music

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/pkg/pagination"
	"github.com/taibuivan/cadenza/pkg/slug"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Service implements catalogue use cases.
type Service struct {
	repository Repository
	files      FileStore
}

// NewService constructs a music [Service].
func NewService(repository Repository, files FileStore) *Service {
	return &Service{repository: repository, files: files}
}

/*
Create stores every uploaded file and then inserts the track.

If any step fails, files already moved into storage are removed again so
that nothing is left without a row pointing at it.
*/
func (service *Service) Create(context context.Context, input CreateInput) (track *Track, err error) {
	title := strings.TrimSpace(input.Title)

	track = &Track{
		ID:         uuid.New(),
		Slug:       slug.From(title),
		Title:      title,
		Artist:     strings.TrimSpace(input.Artist),
		UploaderID: input.UploaderID,
	}
	if track.Slug == "" {
		track.Slug = track.ID
	}

	var stored []string
	defer func() {
		if err != nil {
			service.discard(context, stored...)
		}
	}()

	files := []struct {
		kind     AssetKind
		category upload.Category
		file     *upload.File
	}{
		{AssetAudio, upload.CategoryAudio, &input.Audio},
		{AssetLyrics, upload.CategoryLyrics, input.Lyrics},
		{AssetCover, upload.CategoryImage, input.Cover},
	}

	for _, entry := range files {
		if entry.file == nil {
			continue
		}
		if entry.file.Category != entry.category {
			return nil, apperr.ValidationError(fmt.Sprintf("Field for %s expects a %s file", entry.kind, entry.category))
		}

		object, saveErr := service.files.Save(*entry.file)
		if saveErr != nil {
			return nil, apperr.Internal(saveErr)
		}
		stored = append(stored, object.Key)

		track.Assets = append(track.Assets, Asset{
			Kind:         entry.kind,
			Key:          object.Key,
			URL:          object.URL,
			ContentType:  entry.file.ContentType,
			SizeBytes:    object.Size,
			OriginalName: entry.file.Filename,
		})
	}

	if err := service.repository.Create(context, track); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "track_created",
		slog.String("track_id", track.ID), slog.Int("assets", len(track.Assets)))

	return track, nil
}

// List returns one page of the catalogue.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Track, pagination.Meta, error) {
	tracks, total, err := service.repository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	for _, track := range tracks {
		service.resolveURLs(track)
	}
	return tracks, pagination.NewMeta(params, total), nil
}

// Get returns a single track.
func (service *Service) Get(context context.Context, id string) (*Track, error) {
	track, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	service.resolveURLs(track)
	return track, nil
}

// Delete hides the track and removes its files.
func (service *Service) Delete(context context.Context, id string) error {
	keys, err := service.repository.SoftDelete(context, id)
	if err != nil {
		return err
	}
	service.discard(context, keys...)
	return nil
}

func (service *Service) resolveURLs(track *Track) {
	for index := range track.Assets {
		track.Assets[index].URL = service.files.URL(track.Assets[index].Key)
	}
}

func (service *Service) discard(context context.Context, keys ...string) {
	for _, key := range keys {
		if err := service.files.Delete(key); err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "track_asset_cleanup_failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}
