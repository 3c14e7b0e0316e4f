// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	requestutil "github.com/taibuivan/cadenza/internal/platform/request"
	"github.com/taibuivan/cadenza/internal/platform/respond"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/platform/validate"
	"github.com/taibuivan/cadenza/internal/users/auth"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
	guard          *upload.Guard
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, guard *upload.Guard) *Handler {
	return &Handler{accountService: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET    /me        : Caller's full profile.
//   - PATCH  /me        : Partial profile update.
//   - DELETE /me        : Soft-delete the caller.
//   - PUT    /me/avatar : Multipart 'profileImage' upload.
//   - GET    /{id}      : Public profile.
func (handler *Handler) Routes(protect func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(router chi.Router) {
		router.Use(protect)

		router.Get("/me", handler.getMe)
		router.Patch("/me", handler.updateMe)
		router.Delete("/me", handler.deleteMe)
		router.With(upload.Middleware(handler.guard, upload.Field{
			Name:     upload.ProfileImageField,
			Category: upload.CategoryImage,
			Required: true,
		})).Put("/me/avatar", handler.replaceAvatar)
	})

	router.Get("/{id}", handler.getUserProfile)

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: Full private profile
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

func validateUpdateMe(input updateMeRequest) error {
	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MinLen(auth.FieldDisplayName, *input.DisplayName, DisplayNameMinLength).
			MaxLen(auth.FieldDisplayName, *input.DisplayName, auth.DisplayNameMaxLength)
	}
	if input.Bio != nil {
		validator.MaxLen(FieldBio, *input.Bio, BioMaxLength)
	}
	return validator.Err()
}

/*
PATCH /api/v1/users/me.

Response:
  - 200: User: The updated profile
  - 400: Invalid JSON or field validation failure
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateUpdateMe(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), identity.ID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/me.

Response:
  - 204: Account deleted
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), identity.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
PUT /api/v1/users/me/avatar.

Request:
  - multipart field 'profileImage' (IMAGE policy)

Response:
  - 200: User with the new avatar_url
  - 400: {success:false} upload violation
*/
func (handler *Handler) replaceAvatar(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, ok := upload.FromContext(request.Context()).File(upload.ProfileImageField)
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("File field 'profileImage' is required"))
		return
	}

	user, err := handler.accountService.ReplaceAvatar(request.Context(), identity.ID, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: PublicProfile
  - 404: User not found
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")
	if !uuid.Valid(userID) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	profile, err := handler.accountService.GetPublicProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
