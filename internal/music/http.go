// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package music

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
	"github.com/taibuivan/cadenza/pkg/pagination"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Handler implements the catalogue endpoints.
type Handler struct {
	musicService *Service
	guard        *upload.Guard
}

// NewHandler constructs a music [Handler].
func NewHandler(service *Service, guard *upload.Guard) *Handler {
	return &Handler{musicService: service, guard: guard}
}

// uploadFields are the file fields accepted by POST /music.
var uploadFields = []upload.Field{
	{Name: FieldAudio, Category: upload.CategoryAudio, Required: true},
	{Name: FieldLyrics, Category: upload.CategoryLyrics},
	{Name: FieldCoverImage, Category: upload.CategoryImage},
}

// Routes returns the catalogue router. Every route requires protect.
//
// # Endpoints
//   - GET    /     : Paginated list (any role).
//   - GET    /{id} : Single track (any role).
//   - POST   /     : Multipart upload (teacher, admin).
//   - DELETE /{id} : Remove track (admin).
func (handler *Handler) Routes(protect func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(protect)

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.With(
		middleware.Authorize(sec.RoleTeacher, sec.RoleAdmin),
		upload.Middleware(handler.guard, uploadFields...),
	).Post("/", handler.create)

	router.With(middleware.Authorize(sec.RoleAdmin)).Delete("/{id}", handler.delete)

	return router
}

func validateCreate(form *upload.Form) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, form.Value(FieldTitle)).
		MaxLen(FieldTitle, form.Value(FieldTitle), TitleMaxLength).
		MaxLen(FieldArtist, form.Value(FieldArtist), ArtistMaxLength)
	return validator.Err()
}

/*
POST /api/v1/music.

Request (multipart/form-data):
  - audio: AUDIO file (required)
  - lyrics: LYRICS file
  - coverImage: IMAGE file
  - title, artist: text fields

Response:
  - 201: Track
  - 400: {success:false} upload violation, or field validation failure
  - 403: Role is not teacher or admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form := upload.FromContext(request.Context())
	if err := validateCreate(form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	audio, _ := form.File(FieldAudio)
	input := CreateInput{
		Title:      form.Value(FieldTitle),
		Artist:     form.Value(FieldArtist),
		UploaderID: identity.ID,
		Audio:      audio,
	}
	if lyrics, ok := form.File(FieldLyrics); ok {
		input.Lyrics = &lyrics
	}
	if cover, ok := form.File(FieldCoverImage); ok {
		input.Cover = &cover
	}

	track, err := handler.musicService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, track)
}

/*
GET /api/v1/music?page=&limit=.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	tracks, meta, err := handler.musicService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tracks, meta)
}

/*
GET /api/v1/music/{id}.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if !uuid.Valid(id) {
		respond.Error(writer, request, apperr.NotFound("Track"))
		return
	}

	track, err := handler.musicService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, track)
}

/*
DELETE /api/v1/music/{id}.

Response:
  - 204: Deleted
  - 403: Caller is not an admin
  - 404: Track not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if !uuid.Valid(id) {
		respond.Error(writer, request, apperr.NotFound("Track"))
		return
	}

	if err := handler.musicService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
