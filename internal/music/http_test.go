// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package music

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/middleware"
	"github.com/taibuivan/cadenza/internal/platform/sec"
	"github.com/taibuivan/cadenza/internal/platform/upload"
)

const (
	teacherID = "0190c3a2-0000-7000-8000-000000000001"
	studentID = "0190c3a2-0000-7000-8000-000000000002"
	adminID   = "0190c3a2-0000-7000-8000-000000000003"
)

type identityMap map[string]*sec.Identity

func (identities identityMap) FindIdentity(_ context.Context, id string) (*sec.Identity, error) {
	if identity, ok := identities[id]; ok {
		return identity, nil
	}
	return nil, apperr.NotFound("User")
}

type musicFixture struct {
	router  http.Handler
	issuer  *sec.TokenIssuer
	repo    *memoryTracks
	files   *memoryFiles
	tempDir string
}

func newMusicFixture(t *testing.T) *musicFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	verifier, err := sec.NewTokenVerifier(&key.PublicKey, []string{"RS256"}, sec.WithIssuer("cadenza.test"))
	require.NoError(t, err)

	resolver := sec.NewIdentityResolver(identityMap{
		teacherID: {ID: teacherID, Role: sec.RoleTeacher, Username: "clara"},
		studentID: {ID: studentID, Role: sec.RoleStudent, Username: "sam"},
		adminID:   {ID: adminID, Role: sec.RoleAdmin, Username: "root"},
	})

	registry, err := upload.NewRegistry(upload.Config{
		MaxFileBytes:   8 * upload.KiB,
		MaxFiles:       3,
		AudioMaxBytes:  4 * upload.KiB,
		LyricsMaxBytes: 2 * upload.KiB,
	})
	require.NoError(t, err)
	tempDir := t.TempDir()

	repo, files := newMemoryTracks(), &memoryFiles{}
	handler := NewHandler(NewService(repo, files), upload.NewGuard(registry, upload.WithTempDir(tempDir)))

	return &musicFixture{
		router:  handler.Routes(middleware.Protect(verifier, resolver)),
		issuer:  sec.NewTokenIssuer(key, "cadenza.test"),
		repo:    repo,
		files:   files,
		tempDir: tempDir,
	}
}

type filePart struct {
	field, filename, contentType string
	size                         int
}

func (fixture *musicFixture) post(t *testing.T, userID string, values map[string]string, parts ...filePart) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range values {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, part := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, part.field, part.filename))
		header.Set("Content-Type", part.contentType)
		partWriter, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = partWriter.Write(bytes.Repeat([]byte("a"), part.size))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return fixture.send(t, request, userID)
}

func (fixture *musicFixture) send(t *testing.T, request *http.Request, userID string) *httptest.ResponseRecorder {
	t.Helper()
	if userID != "" {
		token, _, err := fixture.issuer.GenerateAccessToken(userID, time.Minute)
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

func (fixture *musicFixture) requireNoSpools(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(fixture.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

var validAudio = filePart{FieldAudio, "clair.mp3", "audio/mpeg", 2048}

/*
TestCreate_TeacherUploads stores the track and returns 201.
*/
func TestCreate_TeacherUploads(t *testing.T) {
	fixture := newMusicFixture(t)

	recorder := fixture.post(t, teacherID, map[string]string{FieldTitle: "Clair de Lune", FieldArtist: "Debussy"},
		validAudio,
		filePart{FieldLyrics, "clair.lrc", "text/plain", 200},
	)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"slug":"clair-de-lune"`)
	assert.Len(t, fixture.repo.tracks, 1)
	fixture.requireNoSpools(t)
}

/*
TestCreate_StudentForbidden is refused before the body is read.
*/
func TestCreate_StudentForbidden(t *testing.T) {
	fixture := newMusicFixture(t)

	recorder := fixture.post(t, studentID, map[string]string{FieldTitle: "Song"}, validAudio)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.JSONEq(t,
		`{"status":false,"statusCode":403,"message":"User role student is not authorized to access this route"}`,
		recorder.Body.String())
	assert.Empty(t, fixture.files.saved)
}

/*
TestCreate_UploadViolations answer with the upload envelope and leave nothing behind.
*/
func TestCreate_UploadViolations(t *testing.T) {
	tests := []struct {
		name    string
		parts   []filePart
		message string
	}{
		{
			name:    "audio_too_large",
			parts:   []filePart{{FieldAudio, "long.wav", "audio/wav", 5 * 1024}},
			message: "Audio file must be between 1KB and 4KB",
		},
		{
			name:    "audio_wrong_type",
			parts:   []filePart{{FieldAudio, "cover.png", "image/png", 2048}},
			message: "Invalid audio format. Only MP3, WAV, OGG and AAC files are allowed",
		},
		{
			name:    "cover_wrong_type",
			parts:   []filePart{validAudio, {FieldCoverImage, "cover.pdf", "application/pdf", 2048}},
			message: "Invalid image format. Only JPEG, PNG, GIF and WebP images are allowed",
		},
		{
			name: "too_many_files",
			parts: []filePart{
				validAudio,
				{FieldLyrics, "a.txt", "text/plain", 100},
				{FieldCoverImage, "c.png", "image/png", 2048},
				{"extra", "x.bin", "application/octet-stream", 100},
			},
			message: "Too many files. Maximum is 3 files per request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newMusicFixture(t)

			recorder := fixture.post(t, teacherID, map[string]string{FieldTitle: "Song"}, tt.parts...)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"success":false,"message":%q}`, tt.message), recorder.Body.String())
			assert.Empty(t, fixture.repo.tracks)
			fixture.requireNoSpools(t)
		})
	}
}

/*
TestCreate_MissingTitle is a field validation failure in the generic envelope.
*/
func TestCreate_MissingTitle(t *testing.T) {
	fixture := newMusicFixture(t)

	recorder := fixture.post(t, teacherID, nil, validAudio)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":false`)
	assert.Contains(t, recorder.Body.String(), `"details"`)
	fixture.requireNoSpools(t)
}

/*
TestDelete_AdminOnly applies the role set without hierarchy.
*/
func TestDelete_AdminOnly(t *testing.T) {
	fixture := newMusicFixture(t)
	created := fixture.post(t, teacherID, map[string]string{FieldTitle: "Song"}, validAudio)
	require.Equal(t, http.StatusCreated, created.Code)

	var trackID string
	for id := range fixture.repo.tracks {
		trackID = id
	}

	recorder := fixture.send(t, httptest.NewRequest(http.MethodDelete, "/"+trackID, nil), teacherID)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.JSONEq(t,
		`{"status":false,"statusCode":403,"message":"User role teacher is not authorized to access this route"}`,
		recorder.Body.String())

	recorder = fixture.send(t, httptest.NewRequest(http.MethodDelete, "/"+trackID, nil), adminID)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, []string{"audio/clair.mp3"}, fixture.files.deleted)
}

/*
TestRead_RequiresToken lets any role read but nobody anonymous.
*/
func TestRead_RequiresToken(t *testing.T) {
	fixture := newMusicFixture(t)

	recorder := fixture.send(t, httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.JSONEq(t, `{"status":false,"statusCode":401,"message":"Not authorized to access this route"}`, recorder.Body.String())

	recorder = fixture.send(t, httptest.NewRequest(http.MethodGet, "/?page=1&limit=5", nil), studentID)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"meta"`)

	recorder = fixture.send(t, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil), studentID)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
