// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package music manages the track catalogue used by lessons.

A track is one audio file plus optional lyrics and cover art. Every file
arrives through the upload guard, so by the time a handler sees it the
category limits and content types have already been enforced.

# Access

  - Any authenticated member may list and read tracks.
  - Teachers and admins may upload.
  - Only admins may delete.
*/
package music

import (
	"context"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/pkg/pagination"
)

// # Multipart Fields

const (
	FieldAudio      = "audio"
	FieldLyrics     = "lyrics"
	FieldCoverImage = "coverImage"
	FieldTitle      = "title"
	FieldArtist     = "artist"
)

const (
	TitleMaxLength  = 200
	ArtistMaxLength = 200
)

// AssetKind names the role a file plays within a track.
type AssetKind string

const (
	AssetAudio  AssetKind = "audio"
	AssetLyrics AssetKind = "lyrics"
	AssetCover  AssetKind = "cover"
)

// # Entities

// Track is a catalogue entry.
type Track struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist,omitempty"`
	UploaderID string    `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
	Assets     []Asset   `json:"assets"`
}

// Asset is one stored file of a track.
type Asset struct {
	Kind         AssetKind `json:"kind"`
	Key          string    `json:"-"`
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	OriginalName string    `json:"original_name,omitempty"`
}

// Asset returns the asset of kind, if present.
func (track *Track) Asset(kind AssetKind) (Asset, bool) {
	for _, asset := range track.Assets {
		if asset.Kind == kind {
			return asset, true
		}
	}
	return Asset{}, false
}

// CreateInput is a validated upload ready to be stored.
type CreateInput struct {
	Title      string
	Artist     string
	UploaderID string
	Audio      upload.File
	Lyrics     *upload.File
	Cover      *upload.File
}

// # Contracts

// Repository persists tracks and their assets.
type Repository interface {
	// Create inserts the track and all of its assets atomically.
	Create(context context.Context, track *Track) error

	// List returns one page of live tracks, newest first, and the total count.
	List(context context.Context, params pagination.Params) ([]*Track, int, error)

	FindByID(context context.Context, id string) (*Track, error)

	// SoftDelete hides the track and returns the asset keys to remove.
	SoftDelete(context context.Context, id string) ([]string, error)
}

// FileStore is the subset of [storage.Store] used by the catalogue.
type FileStore interface {
	Save(file upload.File) (storage.Object, error)
	Delete(key string) error
	URL(key string) string
}
