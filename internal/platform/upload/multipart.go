// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/ctxkey"
	"github.com/taibuivan/cadenza/internal/platform/respond"
)

// partOverheadBytes is the allowance for one part's boundary and headers.
const partOverheadBytes = 1 * KiB

// Field declares a file field accepted by a route.
type Field struct {
	Name     string
	Category Category
	Required bool
}

// File is an uploaded part spooled to a temporary file.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Category    Category
	// Path is the temporary location. It is removed when the request ends
	// unless the handler has moved it.
	Path string
}

// Form is the parsed multipart body handed to the handler.
type Form struct {
	Values url.Values
	Files  []File
}

// File returns the first file uploaded under field.
func (form *Form) File(field string) (File, bool) {
	for _, file := range form.Files {
		if file.Field == field {
			return file, true
		}
	}
	return File{}, false
}

// Value returns the first value of a non-file field.
func (form *Form) Value(field string) string {
	return form.Values.Get(field)
}

// cleanup removes every temporary file. Files already moved are skipped.
func (form *Form) cleanup() {
	for _, file := range form.Files {
		if file.Path != "" {
			_ = os.Remove(file.Path)
		}
	}
}

// FromContext returns the form parsed by [Middleware], or nil.
func FromContext(ctx context.Context) *Form {
	form, _ := ctx.Value(ctxkey.KeyUploads).(*Form)
	return form
}

// # Middleware

/*
Middleware parses a multipart body, validating each file with guard.

Flow:
 1. Cap the body with [http.MaxBytesReader].
 2. Stream each part; file parts go to a temporary file bounded by the
    category limit, plain fields are kept in memory.
 3. Validate each file as soon as it is written.
 4. On any failure remove the temporary files and respond 400.
 5. Otherwise call next with the [Form] in the context and remove the
    temporary files once it returns.
*/
func Middleware(guard *Guard, fields ...Field) func(http.Handler) http.Handler {
	declared := make(map[string]Field, len(fields))
	for _, field := range fields {
		declared[field.Name] = field
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			form, err := guard.parse(writer, request, declared)
			defer form.cleanup()

			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUploads, form)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func (guard *Guard) parse(writer http.ResponseWriter, request *http.Request, declared map[string]Field) (*Form, error) {
	form := &Form{Values: url.Values{}}
	limits := guard.registry.limits
	route := RouteContext{Path: request.URL.Path}

	request.Body = http.MaxBytesReader(writer, request.Body, guard.bodyLimit(route, declared))

	reader, err := request.MultipartReader()
	if err != nil {
		return form, apperr.ValidationError("Request must be multipart/form-data")
	}

	fieldCount, fieldBudget := 0, limits.MaxFormFieldBytes

	for {
		if err := request.Context().Err(); err != nil {
			return form, guard.Translate(err, route)
		}

		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, guard.Translate(err, route)
		}

		name := part.FormName()
		if len(name) > limits.MaxFieldNameBytes {
			part.Close()
			return form, guard.Translate(ErrFieldNameTooLong, route)
		}

		// Plain form field, charged against the shared field budget
		if part.FileName() == "" {
			fieldCount++
			if fieldCount > limits.MaxFormFields {
				part.Close()
				return form, guard.Translate(ErrTooManyFields, route)
			}

			value, err := readValue(part, min(limits.MaxFieldValueBytes, fieldBudget))
			part.Close()
			if err != nil {
				return form, guard.Translate(err, route)
			}
			fieldBudget -= int64(len(value))
			form.Values.Add(name, value)
			continue
		}

		fileRoute := route
		fileRoute.Field = name
		if field, ok := declared[name]; ok {
			fileRoute.Category = field.Category
		}

		if len(form.Files) >= limits.MaxFiles {
			part.Close()
			return form, guard.Translate(ErrTooManyFiles, fileRoute)
		}

		file, err := guard.spool(request.Context(), part, fileRoute)
		part.Close()
		if file.Path != "" {
			form.Files = append(form.Files, file)
		}
		if err != nil {
			return form, err
		}
	}

	for _, field := range declared {
		if _, ok := form.File(field.Name); field.Required && !ok {
			return form, apperr.ValidationError(fmt.Sprintf("File field '%s' is required", field.Name),
				apperr.FieldError{Field: field.Name, Message: "is required"})
		}
	}

	return form, nil
}

// spool copies one part to a temporary file, reading at most one byte past
// the category limit, then validates it.
func (guard *Guard) spool(ctx context.Context, part *multipart.Part, route RouteContext) (File, error) {
	temp, err := os.CreateTemp(guard.tempDir, "cadenza-upload-*")
	if err != nil {
		return File{}, apperr.Internal(fmt.Errorf("upload: create temp file: %w", err))
	}

	file := File{
		Field:       route.Field,
		Filename:    part.FileName(),
		ContentType: NormalizeContentType(part.Header.Get("Content-Type")),
		Category:    guard.Classify(route),
		Path:        temp.Name(),
	}

	limit := guard.MaxBytesFor(route)
	written, copyErr := io.Copy(temp, &contextReader{ctx: ctx, reader: io.LimitReader(part, limit+1)})
	closeErr := temp.Close()
	file.Size = written

	if copyErr != nil {
		return file, guard.Translate(copyErr, route)
	}
	if closeErr != nil {
		return file, apperr.Internal(fmt.Errorf("upload: close temp file: %w", closeErr))
	}

	return file, guard.Validate(FileDescriptor{
		Field:       file.Field,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
	}, route)
}

// bodyLimit bounds the whole request: every file at the largest accepted size
// plus the plain-field budget and part headers.
func (guard *Guard) bodyLimit(route RouteContext, declared map[string]Field) int64 {
	largest := guard.MaxBytesFor(route)
	for _, field := range declared {
		fieldRoute := route
		fieldRoute.Field = field.Name
		fieldRoute.Category = field.Category
		largest = max(largest, guard.MaxBytesFor(fieldRoute))
	}

	limits := guard.registry.limits
	return int64(limits.MaxFiles)*(largest+1) + limits.MaxFormFieldBytes + partOverheadBytes*int64(limits.MaxFiles+limits.MaxFormFields)
}

func readValue(part *multipart.Part, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", ErrFieldValueTooLong
	}
	return string(data), nil
}

// contextReader stops reading once ctx is cancelled.
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}
