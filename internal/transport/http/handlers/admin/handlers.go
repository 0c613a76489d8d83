package adminhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/platform/metrics"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
)

type Handler struct {
	Metrics *metrics.Collector
	Perms   middleware.PermissionStore
}

func NewHandler(collector *metrics.Collector, perms middleware.PermissionStore) *Handler {
	return &Handler{Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMetricsRead, h.Perms)).Get("/metrics", h.handleMetrics)
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusServiceUnavailable, "metrics_disabled", "metrics collection is disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
