// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
)

// ErrorEnvelope is the generic/auth error body.
type ErrorEnvelope struct {
	Status     bool                `json:"status"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Details    []apperr.FieldError `json:"details,omitempty"`
}

// # Translation

/*
Translate maps any error to its HTTP status and wire body.

Mapping:
  - [*apperr.UploadViolation]: 400 with a [FormEnvelope].
  - [*apperr.AppError]: its own status (401, 403, 400 ...) with an [ErrorEnvelope].
  - Anything else: 500 with a generic message. Internal text is never exposed.
*/
func Translate(err error) (int, any) {
	if violation := apperr.AsUpload(err); violation != nil {
		return violation.StatusCode(), FormEnvelope{Success: false, Message: violation.Message}
	}

	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	// 5xx bodies never carry anything but the fixed message
	message := appError.Message
	if appError.HTTPStatus >= http.StatusInternalServerError {
		message = apperr.Internal(nil).Message
	}

	return appError.HTTPStatus, ErrorEnvelope{
		Status:     false,
		StatusCode: appError.HTTPStatus,
		Message:    message,
		Details:    appError.Details,
	}
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	status, body := Translate(err)
	logFailure(request, status, err)
	JSON(writer, status, body)
}

// FormError renders err with the {"success": false} shape regardless of its
// variant. Used by the contact form, whose clients only understand that shape.
func FormError(writer http.ResponseWriter, request *http.Request, err error) {
	status, body := Translate(err)
	logFailure(request, status, err)

	if envelope, ok := body.(ErrorEnvelope); ok {
		body = FormEnvelope{Success: false, Message: envelope.Message}
	}
	JSON(writer, status, body)
}

// logFailure always logs 5xx responses and upload rejections.
func logFailure(request *http.Request, status int, err error) {
	context := request.Context()
	logger := ctxutil.GetLogger(context)

	if violation := apperr.AsUpload(err); violation != nil {
		logger.InfoContext(context, "upload_rejected",
			slog.String("kind", string(violation.Kind)),
			slog.String("category", violation.Category),
			slog.Any("cause", violation.Cause),
		)
		return
	}

	if status < http.StatusInternalServerError {
		return
	}

	code := apperr.CodeInternal
	var cause error = err
	if appError := apperr.As(err); appError != nil {
		code = appError.Code
		if appError.Cause != nil {
			cause = appError.Cause
		}
	}

	logger.ErrorContext(context, "api_server_error",
		slog.String("code", code),
		slog.String("request_id", ctxutil.GetRequestID(context)),
		slog.Any("cause", cause),
	)
}
