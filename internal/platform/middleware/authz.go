// Copyright (c) 2026 Adminkit. All rights reserved.

// Package middleware provides the HTTP middleware chain for the Adminkit API server.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/huyld/adminkit/internal/platform/apperr"
	"github.com/huyld/adminkit/internal/platform/ctxutil"
	"github.com/huyld/adminkit/internal/platform/respond"
	"github.com/huyld/adminkit/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string, expectedType sec.TokenType) (*sec.AuthClaims, error)
}

// IdentityChecker re-validates the acting identity against storage.
//
// A signed token alone is not enough to act: the account may have been
// deactivated or its password rotated after issuance. The checker runs on
// every authenticated request and must return an [apperr.AppError]
// (Unauthorized) when the identity is gone, inactive, or the token was
// issued before the last password change.
type IdentityChecker interface {
	CheckActive(ctx context.Context, userID string, issuedAt time.Time) error
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous (protected groups 401 via
//     [RequireAuth]).
//  3. If present, verify it as an ACCESS token via [TokenVerifier].
//  4. Re-check the identity via [IdentityChecker] (active flag, stale tokens).
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, checker IdentityChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(parts[1], sec.TokenTypeAccess)
			if err != nil {
				// Expiry stays distinguishable so clients know to refresh;
				// every other failure is a generic invalid-token response.
				if errors.Is(err, sec.ErrTokenExpired) {
					respond.Error(writer, request, apperr.Unauthorized("Token expired"))
					return
				}
				respond.Error(writer, request, apperr.Unauthorized("Invalid token"))
				return
			}

			// ── 4. Identity Re-Check ──────────────────────────────────────────
			var issuedAt time.Time
			if claims.IssuedAt != nil {
				issuedAt = claims.IssuedAt.Time
			}
			if err := checker.CheckActive(request.Context(), claims.UserID, issuedAt); err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose role is not granted the action by
// the permission matrix.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth], so protected groups only need one of the two.
//
// # Ownership
//
// This guard covers ownership-free actions only. Handlers for
// ownership-scoped actions (project edit/delete) load the resource first and
// call [sec.Authorize] with the concrete owner id.
func RequirePermission(action sec.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.Authorize(claims.Role, action, "", claims.UserID) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
