// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

/*
TestFactories_Status verifies that every factory pins the expected status and code.
*/
func TestFactories_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, apperr.CodeForbidden},
		{"not_found", apperr.NotFound("Track"), http.StatusNotFound, apperr.CodeNotFound},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestInternal_HidesCause ensures the client message never contains the cause text.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation users.account does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "users.account")
	assert.ErrorIs(t, err, cause)
}

/*
TestAs_WrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", apperr.Forbidden("denied"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeForbidden, ae.Code)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeForbidden))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeForbidden))
}

/*
TestUploadViolation_Tagging verifies the upload variant keeps its tag and cause.
*/
func TestUploadViolation_Tagging(t *testing.T) {
	cause := errors.New("multipart: NextPart: EOF")
	err := fmt.Errorf("parse: %w", apperr.UploadCause(apperr.ViolationUnclassified, "AUDIO", "Upload failed", cause))

	uv := apperr.AsUpload(err)
	require.NotNil(t, uv)
	assert.Equal(t, apperr.ViolationUnclassified, uv.Kind)
	assert.Equal(t, "AUDIO", uv.Category)
	assert.Equal(t, http.StatusBadRequest, uv.StatusCode())
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, apperr.AsUpload(apperr.Unauthorized("x")))
}
