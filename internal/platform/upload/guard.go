// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

// ProfileImageField is the form field name reserved for profile pictures.
const ProfileImageField = "profileImage"

// Transport failures reported by [Middleware] and classified by [Guard.Translate].
var (
	ErrTooManyFiles      = errors.New("upload: too many files")
	ErrFieldNameTooLong  = errors.New("upload: field name too long")
	ErrFieldValueTooLong = errors.New("upload: field value too long")
	ErrTooManyFields     = errors.New("upload: too many form fields")
)

// FileDescriptor is what the guard knows about one uploaded file.
type FileDescriptor struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
}

// RouteContext is the request information used to classify a file.
type RouteContext struct {
	Path  string
	Field string
	// Category is set when the route declares the field explicitly.
	Category Category
}

// # Guard

// Guard checks uploaded files against the [Registry]. It is stateless and
// owns no files; callers discard temporary artifacts on failure.
type Guard struct {
	registry *Registry
	tempDir  string
}

// GuardOption customises a [Guard].
type GuardOption func(*Guard)

// WithTempDir sets the directory used by [Middleware] for spooled parts.
func WithTempDir(dir string) GuardOption {
	return func(guard *Guard) { guard.tempDir = dir }
}

// NewGuard creates a guard over registry.
func NewGuard(registry *Registry, opts ...GuardOption) *Guard {
	guard := &Guard{registry: registry, tempDir: os.TempDir()}
	for _, opt := range opts {
		opt(guard)
	}
	return guard
}

// Registry returns the policy table used by the guard.
func (guard *Guard) Registry() *Registry {
	return guard.registry
}

/*
Classify picks the category of a file using an ordered tie-break:

 1. The category declared by the route for this field.
 2. A "/music" or "/audio" path segment: AUDIO.
 3. The profile image field: IMAGE.
 4. Otherwise: [CategoryGeneric].
*/
func (guard *Guard) Classify(route RouteContext) Category {
	if route.Category != "" {
		return route.Category
	}

	for _, segment := range strings.Split(strings.ToLower(route.Path), "/") {
		if segment == "music" || segment == "audio" {
			return CategoryAudio
		}
	}

	if route.Field == ProfileImageField {
		return CategoryImage
	}

	return CategoryGeneric
}

// MaxBytesFor returns the largest size accepted for a file on route.
func (guard *Guard) MaxBytesFor(route RouteContext) int64 {
	category := guard.Classify(route)
	if category == CategoryGeneric {
		return guard.registry.limits.MaxFileBytes
	}
	policy, err := guard.registry.PolicyFor(category)
	if err != nil {
		return guard.registry.limits.MaxFileBytes
	}
	return policy.MaxSizeBytes
}

// Validate accepts file or returns an [*apperr.UploadViolation]. Size is
// checked before content type.
func (guard *Guard) Validate(file FileDescriptor, route RouteContext) error {
	category := guard.Classify(route)

	if category == CategoryGeneric {
		if file.Size > guard.registry.limits.MaxFileBytes {
			return apperr.Upload(apperr.ViolationTooLarge, category.String(), guard.registry.messages.size)
		}
		return nil
	}

	policy, err := guard.registry.PolicyFor(category)
	if err != nil {
		return apperr.Internal(err)
	}

	if file.Size > policy.MaxSizeBytes {
		return apperr.Upload(apperr.ViolationTooLarge, category.String(), policy.Messages.WrongSize)
	}
	if file.Size < policy.MinSizeBytes {
		return apperr.Upload(apperr.ViolationTooSmall, category.String(), policy.Messages.WrongSize)
	}
	if !policy.Allows(NormalizeContentType(file.ContentType)) {
		return apperr.Upload(apperr.ViolationInvalidType, category.String(), policy.Messages.WrongType)
	}

	return nil
}

// Translate turns a transport error raised while reading a multipart body
// into an [*apperr.UploadViolation]. Unknown errors are kept as Unclassified
// with their raw text appended, never dropped.
func (guard *Guard) Translate(err error, route RouteContext) error {
	if err == nil {
		return nil
	}
	if violation := apperr.AsUpload(err); violation != nil {
		return violation
	}

	category := guard.Classify(route)

	var maxBytesError *http.MaxBytesError
	switch {
	case errors.Is(err, ErrTooManyFiles):
		return apperr.UploadCause(apperr.ViolationTooManyFiles, category.String(), guard.registry.messages.count, err)

	case errors.As(err, &maxBytesError), errors.Is(err, multipart.ErrMessageTooLarge):
		return apperr.UploadCause(apperr.ViolationTooLarge, category.String(), guard.sizeMessage(category), err)

	case errors.Is(err, ErrFieldNameTooLong), errors.Is(err, ErrFieldValueTooLong), errors.Is(err, ErrTooManyFields):
		return apperr.UploadCause(apperr.ViolationUnclassified, category.String(), generalErrorMessage, err)

	default:
		message := fmt.Sprintf("%s: %s", generalErrorMessage, err.Error())
		return apperr.UploadCause(apperr.ViolationUnclassified, category.String(), message, err)
	}
}

func (guard *Guard) sizeMessage(category Category) string {
	if policy, err := guard.registry.PolicyFor(category); err == nil {
		return policy.Messages.WrongSize
	}
	return guard.registry.messages.size
}

// NormalizeContentType lower-cases contentType and drops its parameters.
// An empty or unparsable value becomes "application/octet-stream".
func NormalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return "application/octet-stream"
	}
	return strings.ToLower(mediaType)
}
