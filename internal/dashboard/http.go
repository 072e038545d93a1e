// Copyright (c) 2026 Adminkit. All rights reserved.

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huyld/adminkit/internal/platform/middleware"
	"github.com/huyld/adminkit/internal/platform/respond"
	"github.com/huyld/adminkit/internal/platform/sec"
)

// Handler exposes the dashboard endpoint over HTTP.
type Handler struct {
	dashboardService *Service
}

// NewHandler constructs a new dashboard [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{dashboardService: service}
}

// Routes returns a [chi.Router] for the dashboard domain.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionViewDashboard))
		r.Get("/stats", handler.stats)
	})

	return router
}

/*
stats handles GET /api/v1/dashboard/stats.

Response:
  - 200: Aggregate snapshot (user counts, projects by status, total budget,
    recent activity)
  - 401: Not authenticated
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.dashboardService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
