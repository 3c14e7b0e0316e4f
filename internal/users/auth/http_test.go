// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/sec"
)

// fakeProtect attaches the identity named by the X-Test-User header.
func fakeProtect(users *memoryUsers) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user, ok := users.users[request.Header.Get("X-Test-User")]
			if !ok {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(request.Context(), user.Identity())))
		})
	}
}

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_RegisterAndLogin drives the public endpoints end to end.
*/
func TestHandler_RegisterAndLogin(t *testing.T) {
	fixture := newServiceFixture(t)
	router := NewHandler(fixture.service).Routes(fakeProtect(fixture.users))

	recorder := serve(t, router, http.MethodPost, "/register",
		`{"username":"clara","email":"clara@example.com","password":"correct-horse","role":"teacher"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "correct-horse")
	assert.NotContains(t, recorder.Body.String(), "PasswordHash")

	recorder = serve(t, router, http.MethodPost, "/login", `{"login":"clara@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.Equal(t, sec.RoleTeacher, body.Data.User.Role)
}

/*
TestHandler_RegisterValidation rejects malformed payloads with the generic envelope.
*/
func TestHandler_RegisterValidation(t *testing.T) {
	fixture := newServiceFixture(t)
	router := NewHandler(fixture.service).Routes(fakeProtect(fixture.users))

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad_json", `{"username":`, http.StatusBadRequest},
		{"unknown_field", `{"username":"clara","nickname":"c"}`, http.StatusBadRequest},
		{"short_password", `{"username":"clara","email":"clara@example.com","password":"short"}`, http.StatusBadRequest},
		{"bad_email", `{"username":"clara","email":"clara","password":"correct-horse"}`, http.StatusBadRequest},
		{"admin_role", `{"username":"clara","email":"clara@example.com","password":"correct-horse","role":"admin"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(t, router, http.MethodPost, "/register", tt.body)
			assert.Equal(t, tt.code, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"status":false`)
		})
	}
}

/*
TestHandler_LoginRejected returns the shared credentials message.
*/
func TestHandler_LoginRejected(t *testing.T) {
	fixture := newServiceFixture(t)
	router := NewHandler(fixture.service).Routes(fakeProtect(fixture.users))

	recorder := serve(t, router, http.MethodPost, "/login", `{"login":"ghost","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.JSONEq(t, `{"status":false,"statusCode":401,"message":"Invalid login credentials"}`, recorder.Body.String())
}

/*
TestHandler_Me returns the caller attached by the protect middleware.
*/
func TestHandler_Me(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t, "clara", "clara@example.com", sec.RoleStudent)
	router := NewHandler(fixture.service).Routes(fakeProtect(fixture.users))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("X-Test-User", user.ID)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"clara"`)

	recorder = serve(t, router, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
