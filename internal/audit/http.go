// Copyright (c) 2026 Adminkit. All rights reserved.

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huyld/adminkit/internal/platform/middleware"
	"github.com/huyld/adminkit/internal/platform/respond"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/pkg/pagination"
)

// Handler implements the admin-only HTTP surface of the audit trail.
type Handler struct {
	auditService *Service
}

// NewHandler constructs a new audit [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{auditService: service}
}

// Routes returns a [chi.Router] for the audit domain.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionViewAuditLogs))
		r.Get("/", handler.list)
	})

	return router
}

/*
list handles GET /api/v1/audit-logs.

Description: Returns a newest-first page of audit entries. Admin only.

Query:
  - page, limit: pagination
  - action: exact audited verb (e.g. "project.delete")
  - resource_type: "user" or "project"
  - actor_id: acting identity id

Response:
  - 200: Paginated entries
  - 401/403: Authentication or permission failure
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Action:       request.URL.Query().Get("action"),
		ResourceType: request.URL.Query().Get("resource_type"),
		ActorID:      request.URL.Query().Get("actor_id"),
	}

	entries, total, err := handler.auditService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}
