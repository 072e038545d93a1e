// Copyright (c) 2026 Adminkit. All rights reserved.

package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/middleware"
	requestutil "github.com/huyld/adminkit/internal/platform/request"
	"github.com/huyld/adminkit/internal/platform/respond"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/pkg/pagination"
)

// Handler exposes account administration over HTTP.
//
// The /me endpoints are owned by the auth handler but mounted here because
// they live under the /users path prefix.
type Handler struct {
	userService *Service
	authHandler *auth.Handler
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service, authHandler *auth.Handler) *Handler {
	return &Handler{userService: service, authHandler: authHandler}
}

// Routes returns a [chi.Router] for the user domain.
//
// The literal "me" segment is registered before "{id}", so chi always routes
// self-service calls to the auth handlers.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service: any authenticated role.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.authHandler.Me)
		r.Post("/me/password", handler.authHandler.ChangePassword)
	})

	// Read surface: every role may view accounts.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionViewUsers))
		r.Get("/", handler.list)
		r.Get("/{id}", handler.get)
	})

	// Mutations: admin only.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionManageUsers))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

/*
list handles GET /api/v1/users.

Query:
  - page, limit: pagination
  - role: admin/manager/viewer
  - is_active: true/false
  - search: email or full-name substring

Response:
  - 200: Paginated accounts
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Role:   request.URL.Query().Get("role"),
		Search: request.URL.Query().Get("search"),
	}
	if raw := request.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	users, total, err := handler.userService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if users == nil {
		users = []*auth.User{}
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /api/v1/users/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	account, err := handler.userService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
create handles POST /api/v1/users.

Request Body:
  - email, password, full_name, role

Response:
  - 201: Created account
  - 409: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.Create(request.Context(), claims.UserID, input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
update handles PUT /api/v1/users/{id}.

Request Body:
  - full_name, role, is_active (all optional; email is immutable)

Response:
  - 200: Updated account
  - 404: Unknown account
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.Update(request.Context(), claims.UserID, requestutil.ID(request, "id"), input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// delete handles DELETE /api/v1/users/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), claims.UserID, requestutil.ID(request, "id"), middleware.RealIP(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
