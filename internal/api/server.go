// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and all domain
handlers into a runnable [http.Server].

Only this package and cmd/api construct server primitives; domain packages
export handlers with a Routes method and nothing else.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/cadenza/internal/learning/material"
	"github.com/taibuivan/cadenza/internal/music"
	"github.com/taibuivan/cadenza/internal/platform/constants"
	"github.com/taibuivan/cadenza/internal/platform/middleware"
	"github.com/taibuivan/cadenza/internal/support/contact"
	"github.com/taibuivan/cadenza/internal/users/account"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Config is what the router needs from the application configuration.
type Config interface {
	middleware.AppConfig
	Port() string
	TrustedProxies() []netip.Prefix
}

// Handlers groups every handler set mounted by the router.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	// Protect verifies the bearer token and resolves the caller.
	Protect func(http.Handler) http.Handler

	Auth     *auth.Handler
	Account  *account.Handler
	Music    *music.Handler
	Material *material.Handler
	Contact  *contact.Handler
}

// # Server Initialization

// NewServer builds the router with the global middleware chain and mounts
// every route group under /api/v1.
//
// Authentication is per route group: public routes (register, login,
// contact, health checks) never see Protect.
func NewServer(context context.Context, cfg Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(cfg.TrustedProxies()))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.Timeout(constants.GlobalRequestTimeout, constants.UploadRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(h.Protect))
		api.Mount("/users", h.Account.Routes(h.Protect))
		api.Mount("/music", h.Music.Routes(h.Protect))
		api.Mount("/lessons/{lessonID}/materials", h.Material.Routes(h.Protect))
		api.Mount("/contact", h.Contact.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown waits for in-flight requests up to timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
