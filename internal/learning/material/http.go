// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package material

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/middleware"
	requestutil "github.com/taibuivan/cadenza/internal/platform/request"
	"github.com/taibuivan/cadenza/internal/platform/respond"
	"github.com/taibuivan/cadenza/internal/platform/sec"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/platform/validate"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Handler implements the lesson material endpoints.
type Handler struct {
	materialService *Service
	guard           *upload.Guard
}

// NewHandler constructs a material [Handler].
func NewHandler(service *Service, guard *upload.Guard) *Handler {
	return &Handler{materialService: service, guard: guard}
}

// Routes is mounted at /lessons/{lessonID}/materials.
//
// # Endpoints
//   - GET  / : Materials of the lesson (any role).
//   - POST / : Multipart 'document' upload (teacher, admin).
func (handler *Handler) Routes(protect func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(protect)

	router.Get("/", handler.list)
	router.With(
		middleware.Authorize(sec.RoleTeacher, sec.RoleAdmin),
		upload.Middleware(handler.guard, upload.Field{Name: FieldDocument, Category: upload.CategoryDocument, Required: true}),
	).Post("/", handler.attach)

	return router
}

func lessonID(request *http.Request) (string, error) {
	id := requestutil.Param(request, "lessonID")
	if !uuid.Valid(id) {
		return "", apperr.NotFound("Lesson")
	}
	return id, nil
}

/*
POST /api/v1/lessons/{lessonID}/materials.

Response:
  - 201: Material
  - 400: {success:false} upload violation
  - 404: Lesson not found
*/
func (handler *Handler) attach(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lesson, err := lessonID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form := upload.FromContext(request.Context())
	title := form.Value(FieldTitle)
	if err := (&validate.Validator{}).MaxLen(FieldTitle, title, TitleMaxLength).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, _ := form.File(FieldDocument)
	material, err := handler.materialService.Attach(request.Context(), lesson, identity.ID, title, document)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, material)
}

/*
GET /api/v1/lessons/{lessonID}/materials.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	lesson, err := lessonID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	materials, err := handler.materialService.List(request.Context(), lesson)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, materials)
}
