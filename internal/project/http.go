// Copyright (c) 2026 Adminkit. All rights reserved.

package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huyld/adminkit/internal/platform/middleware"
	requestutil "github.com/huyld/adminkit/internal/platform/request"
	"github.com/huyld/adminkit/internal/platform/respond"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/pkg/pagination"
)

// Handler exposes the project endpoints over HTTP.
type Handler struct {
	projectService *Service
}

// NewHandler constructs a new project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{projectService: service}
}

// Routes returns a [chi.Router] for the project domain.
//
// Edit and delete carry no route-level permission guard: they are
// ownership-sensitive, so the service loads the project and authorizes
// against its concrete owner id.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionViewProjects))
		r.Get("/", handler.list)
		r.Get("/{id}", handler.get)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionCreateProject))
		r.Post("/", handler.create)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

/*
list handles GET /api/v1/projects.

Query:
  - page, limit: pagination
  - status, priority: exact enum filters
  - search: name or description substring
  - sort: created_at | name | priority | budget
  - order: asc | desc

Response:
  - 200: Paginated projects
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Search:   query.Get("search"),
		SortBy:   query.Get("sort"),
		SortDesc: query.Get("order") == "desc",
	}

	projects, total, err := handler.projectService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if projects == nil {
		projects = []*Project{}
	}

	respond.Paginated(writer, projects, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /api/v1/projects/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.projectService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
create handles POST /api/v1/projects.

Description: Admin/manager only (route guard). The actor becomes the owner.

Request Body:
  - name, description, status, priority, budget_cents

Response:
  - 201: Created project
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

	entity, err := handler.projectService.Create(request.Context(), claims, input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
update handles PUT /api/v1/projects/{id}.

Description: Admin edits any project; a manager only their own. The ownership
decision happens in the service against the stored owner id.

Response:
  - 200: Updated project
  - 403: Actor does not own the project (manager) or may not edit (viewer)
  - 404: Unknown project
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

	entity, err := handler.projectService.Update(request.Context(), claims, requestutil.ID(request, "id"), input, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// delete handles DELETE /api/v1/projects/{id}. Same ownership rule as update.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.projectService.Delete(request.Context(), claims, requestutil.ID(request, "id"), middleware.RealIP(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
