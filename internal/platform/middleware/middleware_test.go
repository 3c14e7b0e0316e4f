// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cadenza/internal/platform/constants"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/middleware"
)

type corsConfig struct {
	development bool
}

func (c corsConfig) IsDevelopment() bool { return c.development }
func (c corsConfig) AllowedOrigins() []string {
	return []string{"https://cadenza.app"}
}

/*
TestRequestID generates an ID when none is provided and echoes a provided one.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "fixed-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "fixed-id", seen)
}

/*
TestPanicRecovery converts a panic into the generic 500 body.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"status":false,"statusCode":500,"message":"An unexpected error occurred"}`, recorder.Body.String())
}

/*
TestCORS only echoes configured origins outside development.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		development bool
		origin      string
		allowed     bool
	}{
		{"production_known", false, "https://cadenza.app", true},
		{"production_unknown", false, "https://evil.example", false},
		{"development_any", true, "http://localhost:5173", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/music", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(corsConfig{development: tt.development})(next).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestTimeout gives multipart requests the longer deadline.
*/
func TestTimeout(t *testing.T) {
	var remaining time.Duration
	handler := middleware.Timeout(time.Second, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok := r.Context().Deadline()
		require.True(t, ok)
		remaining = time.Until(deadline)
	}))

	request := httptest.NewRequest(http.MethodPost, "/music", nil)
	request.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Greater(t, remaining, time.Minute)

	request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	request.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.LessOrEqual(t, remaining, time.Second)
}

/*
TestRateLimit rejects an IP once its burst is spent; each middleware instance
keeps its own buckets.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })
	limited := middleware.RateLimit(ctx)(ok)

	send := func(handler http.Handler, remoteAddr string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = remoteAddr
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	rejected := 0
	for range constants.DefaultRateLimitBurst + 50 {
		if send(limited, "203.0.113.7:5000") == http.StatusTooManyRequests {
			rejected++
		}
	}
	assert.Positive(t, rejected)
	assert.Equal(t, http.StatusOK, send(limited, "203.0.113.8:5000"))

	fresh := middleware.RateLimit(ctx)(ok)
	assert.Equal(t, http.StatusOK, send(fresh, "203.0.113.7:5000"))
}

/*
TestClientIP honours forwarding headers from trusted proxies only.
*/
func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("fd00::/8")}

	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{"direct_client", "203.0.113.7:5000", "", "", "203.0.113.7"},
		{"spoofed_forwarded_for", "203.0.113.7:5000", "", "198.51.100.1", "203.0.113.7"},
		{"spoofed_real_ip", "203.0.113.7:5000", "198.51.100.1", "", "203.0.113.7"},
		{"proxy_real_ip", "10.0.0.2:5000", "198.51.100.1", "", "198.51.100.1"},
		{"proxy_forwarded_for", "10.0.0.2:5000", "", "198.51.100.1", "198.51.100.1"},
		{"client_prepended_hop", "10.0.0.2:5000", "", "6.6.6.6, 198.51.100.1, 10.0.0.9", "198.51.100.1"},
		{"proxy_without_headers", "10.0.0.2:5000", "", "", "10.0.0.2"},
		{"proxy_garbage_header", "10.0.0.2:5000", "", "not-an-ip", "10.0.0.2"},
		{"ipv6_proxy", "[fd00::1]:5000", "", "2001:db8::5", "2001:db8::5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.ClientIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = middleware.RealIP(request)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tt.want, seen)
		})
	}
}

/*
TestRealIP_WithoutClientIP falls back to the direct peer and ignores headers.
*/
func TestRealIP_WithoutClientIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "203.0.113.7:5000"
	request.Header.Set("X-Real-IP", "198.51.100.1")

	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
}

// headerCounter records every WriteHeader call, including superfluous ones.
type headerCounter struct {
	*httptest.ResponseRecorder
	calls []int
}

func (counter *headerCounter) WriteHeader(code int) {
	counter.calls = append(counter.calls, code)
	counter.ResponseRecorder.WriteHeader(code)
}

/*
TestTimeout_Expiry answers 504 for JSON requests and leaves an expired upload's
own response alone.
*/
func TestTimeout_Expiry(t *testing.T) {
	timeout := middleware.Timeout(time.Millisecond, time.Millisecond)

	t.Run("json_gets_gateway_timeout", func(t *testing.T) {
		handler := timeout(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		counter := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
		request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		request.Header.Set("Content-Type", "application/json")
		handler.ServeHTTP(counter, request)

		assert.Equal(t, []int{http.StatusGatewayTimeout}, counter.calls)
	})

	t.Run("upload_keeps_its_rejection", func(t *testing.T) {
		handler := timeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			w.WriteHeader(http.StatusBadRequest)
		}))

		counter := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
		request := httptest.NewRequest(http.MethodPost, "/music", nil)
		request.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		handler.ServeHTTP(counter, request)

		assert.Equal(t, []int{http.StatusBadRequest}, counter.calls)
		assert.Equal(t, http.StatusBadRequest, counter.Code)
	})
}
