package reportshandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/reports"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/performance", h.handlePerformance)
		r.With(middleware.RequireAuth).Get("/employee/{userID}", h.handleEmployee)
		r.With(middleware.RequireAuth).Get("/employee/{userID}/pdf", h.handleEmployeePDF)
	})
}

// canViewEmployee allows anyone to read their own report; other reports need
// the reports permission.
func (h *Handler) canViewEmployee(r *http.Request, userID string) (bool, error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return false, nil
	}
	if user.UserID == userID {
		return true, nil
	}
	return h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermReportsRead)
}

func (h *Handler) rejectEmployeeAccess(w http.ResponseWriter, r *http.Request, userID string) bool {
	allowed, err := h.canViewEmployee(r, userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "failed to check permissions", middleware.GetRequestID(r.Context()))
		return true
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may only view your own report", middleware.GetRequestID(r.Context()))
		return true
	}
	return false
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.PerformanceReport(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build performance report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if h.rejectEmployeeAccess(w, r, userID) {
		return
	}
	report, err := h.Service.EmployeeReport(r.Context(), userID)
	if err != nil {
		if errors.Is(err, reports.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build employee report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeePDF(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if h.rejectEmployeeAccess(w, r, userID) {
		return
	}
	report, err := h.Service.EmployeeReport(r.Context(), userID)
	if err != nil {
		if errors.Is(err, reports.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build employee report", middleware.GetRequestID(r.Context()))
		return
	}
	periods, err := h.Service.QuarterlyPerformance(r.Context(), userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build employee report", middleware.GetRequestID(r.Context()))
		return
	}

	pdf, err := reports.RenderEmployeeReportPDF(report, periods)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render report pdf", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "performance-report-"+userID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
