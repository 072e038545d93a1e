// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huyld/adminkit/internal/platform/middleware"
	requestutil "github.com/huyld/adminkit/internal/platform/request"
	"github.com/huyld/adminkit/internal/platform/respond"
)

// Handler exposes the authentication endpoints over HTTP.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] for the public auth endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	return router
}

/*
login handles POST /api/v1/auth/login.

Description: Exchanges email/password credentials for an access/refresh token
pair. Failures are indistinguishable by design.

Request Body:
  - email, password

Response:
  - 200: Token pair plus the account profile
  - 401: Invalid credentials (generic)
  - 429: Too many failed attempts from this address
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.IPAddress = middleware.RealIP(request)

	session, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token":  session.Tokens.AccessToken,
		"refresh_token": session.Tokens.RefreshToken,
		"user":          session.User,
	})
}

/*
refresh handles POST /api/v1/auth/refresh.

Description: Rotates a refresh token into a brand new token pair. The account
is re-checked against storage before anything is issued.

Request Body:
  - refresh_token

Response:
  - 200: Fresh token pair
  - 401: Token or account no longer valid
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

// # Self-Service Endpoints

// The /users/me endpoints live under the user router but are owned by the
// auth domain: they act on the CALLER, never on an arbitrary account.

/*
Me handles GET /api/v1/users/me.

Description: Returns the authenticated caller's own profile.

Response:
  - 200: The account entity
  - 401: Not authenticated
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
ChangePassword handles POST /api/v1/users/me/password.

Description: Rotates the caller's own password after re-verifying the current
one. All previously issued tokens become invalid.

Request Body:
  - current_password, new_password

Response:
  - 204: Password rotated
  - 401: Current password incorrect (or not authenticated)
*/
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.IPAddress = middleware.RealIP(request)

	if err := handler.authService.ChangePassword(request.Context(), userID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
