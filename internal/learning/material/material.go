// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package material attaches downloadable documents (sheet music, worksheets)
// to lessons.
package material

import (
	"context"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
)

const (
	FieldDocument = "document"
	FieldTitle    = "title"

	TitleMaxLength = 200
)

// Material is a document attached to a lesson.
type Material struct {
	ID           string    `json:"id"`
	LessonID     string    `json:"lesson_id"`
	UploaderID   string    `json:"uploader_id"`
	Title        string    `json:"title"`
	Key          string    `json:"-"`
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	OriginalName string    `json:"original_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists materials.
type Repository interface {
	// Create fails with NOT_FOUND when the lesson does not exist.
	Create(context context.Context, material *Material) error

	ListByLesson(context context.Context, lessonID string) ([]*Material, error)
}

// FileStore is the subset of [storage.Store] used for documents.
type FileStore interface {
	Save(file upload.File) (storage.Object, error)
	Delete(key string) error
	URL(key string) string
}
