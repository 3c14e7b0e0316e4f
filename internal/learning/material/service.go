// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package material

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Service implements lesson material use cases.
type Service struct {
	repository Repository
	files      FileStore
}

// NewService constructs a material [Service].
func NewService(repository Repository, files FileStore) *Service {
	return &Service{repository: repository, files: files}
}

/*
Attach stores document and links it to lessonID.

An empty title falls back to the client file name without its extension.
The stored file is removed again if the row cannot be written.
*/
func (service *Service) Attach(context context.Context, lessonID, uploaderID, title string, document upload.File) (*Material, error) {
	if document.Category != upload.CategoryDocument {
		return nil, apperr.ValidationError("Material must be a document")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(document.Filename), filepath.Ext(document.Filename))
	}

	object, err := service.files.Save(document)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	material := &Material{
		ID:           uuid.New(),
		LessonID:     lessonID,
		UploaderID:   uploaderID,
		Title:        title,
		Key:          object.Key,
		URL:          object.URL,
		ContentType:  document.ContentType,
		SizeBytes:    object.Size,
		OriginalName: document.Filename,
	}

	if err := service.repository.Create(context, material); err != nil {
		if removeErr := service.files.Delete(object.Key); removeErr != nil {
			ctxutil.GetLogger(context).WarnContext(context, "material_cleanup_failed",
				slog.String("key", object.Key), slog.Any("error", removeErr))
		}
		return nil, err
	}

	return material, nil
}

// List returns the materials of a lesson, oldest first.
func (service *Service) List(context context.Context, lessonID string) ([]*Material, error) {
	materials, err := service.repository.ListByLesson(context, lessonID)
	if err != nil {
		return nil, err
	}
	for _, material := range materials {
		material.URL = service.files.URL(material.Key)
	}
	return materials, nil
}
