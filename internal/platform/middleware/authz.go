// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/constants"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/respond"
	"github.com/taibuivan/cadenza/internal/platform/sec"
)

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// IdentityResolver loads the live identity behind a verified subject.
type IdentityResolver interface {
	Resolve(ctx context.Context, subjectID string) (*sec.Identity, error)
}

// Protect requires a valid bearer token whose subject still exists.
//
// # Flow
//  1. Read the 'Authorization: Bearer <token>' header.
//  2. Verify signature, algorithm and expiry via [TokenVerifier].
//  3. Load the identity via [IdentityResolver].
//  4. Inject the [*sec.Identity] into the request context.
//
// Token and identity failures stop the chain with 401; a missing account and a
// forged token produce the same response. A store outage is a 500.
func Protect(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract
			tokenString, ok := bearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized(sec.MsgNotAuthorized))
				return
			}

			// 2. Verify
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected", "error", errorCause(err))
				respond.Error(writer, request, err)
				return
			}

			// 3. Resolve
			identity, err := resolver.Resolve(request.Context(), claims.Subject)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// 4. Inject
			trackIdentity(request.Context(), identity)
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Authorize allows the request only when the caller's role is in roles.
// No roles means any authenticated caller.
//
// # Usage
//
// Must be registered in the router AFTER [Protect]. The role set is built
// once, when the route is registered.
func Authorize(roles ...sec.Role) func(http.Handler) http.Handler {
	required := sec.NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if _, err := sec.Authorize(identity, required); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(request *http.Request) (string, bool) {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func errorCause(err error) error {
	if appError := apperr.As(err); appError != nil && appError.Cause != nil {
		return appError.Cause
	}
	return err
}
