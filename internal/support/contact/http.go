// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cadenza/internal/platform/middleware"
	requestutil "github.com/taibuivan/cadenza/internal/platform/request"
	"github.com/taibuivan/cadenza/internal/platform/respond"
	"github.com/taibuivan/cadenza/internal/platform/validate"
)

// Handler implements the public contact form endpoint.
type Handler struct {
	contactService *Service
}

// NewHandler constructs a contact [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{contactService: service}
}

// Routes exposes POST / (public).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.submit)
	return router
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func validateSubmit(input submitRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldSubject, input.Subject, SubjectMaxLength).
		Required(FieldMessage, input.Message).
		MinLen(FieldMessage, input.Message, MessageMinLength).
		MaxLen(FieldMessage, input.Message, MessageMaxLength)
	return validator.Err()
}

/*
POST /api/v1/contact.

Response:
  - 201: {success:true, message}
  - 400: {success:false, message} for bad JSON or invalid fields
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.FormError(writer, request, err)
		return
	}

	if err := validateSubmit(input); err != nil {
		respond.FormError(writer, request, err)
		return
	}

	_, err := handler.contactService.Submit(request.Context(), SubmitInput{
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Message:   input.Message,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.FormError(writer, request, err)
		return
	}

	respond.FormSuccess(writer, http.StatusCreated, MsgReceived, nil)
}
