// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr

import (
	"errors"
	"net/http"
)

// # Upload Violations

// ViolationKind tags the reason an uploaded file was rejected.
type ViolationKind string

const (
	ViolationTooLarge     ViolationKind = "TOO_LARGE"
	ViolationTooSmall     ViolationKind = "TOO_SMALL"
	ViolationTooManyFiles ViolationKind = "TOO_MANY_FILES"
	ViolationInvalidType  ViolationKind = "INVALID_TYPE"
	ViolationUnclassified ViolationKind = "UNCLASSIFIED"
)

// UploadViolation is raised when a multipart upload breaks a size, count or
// content-type policy. It always maps to HTTP 400.
//
// Category is the upload category name ("AUDIO", "IMAGE", ...). It is a plain
// string so that this package stays free of upload-layer imports.
type UploadViolation struct {
	Kind     ViolationKind
	Category string
	Message  string
	// Cause is the raw transport error, if any. Logged, never rendered.
	Cause error
}

// Error implements the error interface. It returns the client-safe message.
func (v *UploadViolation) Error() string { return v.Message }

// Unwrap exposes the transport error to [errors.Is] and [errors.As].
func (v *UploadViolation) Unwrap() error { return v.Cause }

// StatusCode is always 400 for upload violations.
func (v *UploadViolation) StatusCode() int { return http.StatusBadRequest }

// Upload creates an [UploadViolation] of the given kind.
func Upload(kind ViolationKind, category, msg string) *UploadViolation {
	return &UploadViolation{Kind: kind, Category: category, Message: msg}
}

// UploadCause creates an [UploadViolation] that keeps the underlying error for logging.
func UploadCause(kind ViolationKind, category, msg string, cause error) *UploadViolation {
	return &UploadViolation{Kind: kind, Category: category, Message: msg, Cause: cause}
}

// AsUpload extracts the [*UploadViolation] from err's chain. It returns nil if not found.
func AsUpload(err error) *UploadViolation {
	var uv *UploadViolation
	if errors.As(err, &uv) {
		return uv
	}
	return nil
}
