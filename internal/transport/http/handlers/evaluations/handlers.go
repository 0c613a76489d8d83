package evaluationshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/audit"
	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/evaluations"
	"evaltrack/internal/domain/notifications"
	"evaltrack/internal/domain/reports"
	"evaltrack/internal/domain/scoring"
	"evaltrack/internal/platform/metrics"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
	"evaltrack/internal/transport/http/shared"
)

type Handler struct {
	Service     *evaluations.Service
	Reports     *reports.Service
	Perms       middleware.PermissionStore
	Notify      *notifications.Service
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
	Metrics     *metrics.Collector
}

func NewHandler(service *evaluations.Service, reportSvc *reports.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, idem *middleware.IdempotencyStore, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Reports: reportSvc, Perms: perms, Notify: notify, Audit: auditSvc, Idempotency: idem, Metrics: collector}
}

func (h *Handler) recordAudit(r *http.Request, action, evaluationID string, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "evaluation", evaluationID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsSubmit, h.Perms)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/user/{userID}", h.handleListForUser)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/quarterly/{userID}", h.handleQuarterly)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/dashboard/quarterly", h.handleOwnDashboard)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/dashboard/{userID}", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{evaluationID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEvaluationsUpdate, h.Perms)).Put("/{evaluationID}", h.handleUpdate)
	})
}

type submitPayload struct {
	UserID   string         `json:"userId"`
	FormID   string         `json:"formId"`
	Scores   map[string]any `json:"scores"`
	Comments string         `json:"comments"`
	PeriodID *string        `json:"periodId"`
}

type updatePayload struct {
	Scores   map[string]any `json:"scores"`
	Comments *string        `json:"comments"`
	PeriodID *string        `json:"periodId"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload submitPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.UserID == "" || payload.FormID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "userId and formId are required", middleware.GetRequestID(r.Context()))
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(raw)
	if idemKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, "POST /evaluations", idemKey, requestHash)
		if err != nil {
			if errors.Is(err, middleware.ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", middleware.GetRequestID(r.Context()))
				return
			}
			api.Fail(w, http.StatusInternalServerError, "internal_error", "idempotency check failed", middleware.GetRequestID(r.Context()))
			return
		}
		if found {
			var replay map[string]any
			if err := json.Unmarshal(stored, &replay); err == nil {
				api.Created(w, replay, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	id, err := h.Service.Submit(r.Context(), evaluations.SubmitInput{
		UserID:      payload.UserID,
		EvaluatorID: user.UserID,
		FormID:      payload.FormID,
		Scores:      payload.Scores,
		Comments:    payload.Comments,
		PeriodID:    payload.PeriodID,
	})
	if err != nil {
		switch {
		case errors.Is(err, evaluations.ErrNoScores):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "at least one score is required", middleware.GetRequestID(r.Context()))
		case errors.Is(err, evaluations.ErrFormNotFound):
			api.Fail(w, http.StatusNotFound, "form_not_found", "evaluation form not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, scoring.ErrBadScore):
			api.Fail(w, http.StatusBadRequest, "invalid_scores", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit evaluation", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordSubmission()
	}
	if h.Notify != nil {
		if err := h.Notify.Create(r.Context(), payload.UserID, notifications.TypeEvaluationReceived,
			"New evaluation received", "A new performance evaluation has been submitted for you."); err != nil {
			slog.Warn("evaluation notification failed", "userId", payload.UserID, "err", err)
		}
	}

	h.recordAudit(r, "evaluation.submit", id, map[string]any{"userId": payload.UserID, "formId": payload.FormID})

	body := map[string]any{"message": "Evaluation submitted successfully", "evaluationId": id}
	if idemKey != "" {
		if encoded, err := json.Marshal(body); err == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, "POST /evaluations", idemKey, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "key", idemKey, "err", err)
			}
		}
	}
	api.Created(w, body, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []evaluations.Evaluation
		err  error
	)
	if userID := r.URL.Query().Get("userId"); userID != "" {
		list, err = h.Service.ListByUser(r.Context(), userID)
	} else {
		list, err = h.Service.ListAll(r.Context())
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	evaluation, err := h.Service.Get(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		if errors.Is(err, evaluations.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "evaluation_get_failed", "failed to load evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluation, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	err := h.Service.Update(r.Context(), evaluationID, evaluations.UpdatePatch{
		Scores:   payload.Scores,
		Comments: payload.Comments,
		PeriodID: payload.PeriodID,
	})
	if err != nil {
		switch {
		case errors.Is(err, evaluations.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, scoring.ErrBadScore):
			api.Fail(w, http.StatusBadRequest, "invalid_scores", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "evaluation_update_failed", "failed to update evaluation", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.recordAudit(r, "evaluation.update", evaluationID, payload)

	evaluation, err := h.Service.Get(r.Context(), evaluationID)
	if err != nil {
		api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
		return
	}
	if h.Notify != nil {
		if err := h.Notify.Create(r.Context(), evaluation.UserID, notifications.TypeEvaluationUpdated,
			"Evaluation updated", "One of your performance evaluations has been updated."); err != nil {
			slog.Warn("evaluation update notification failed", "userId", evaluation.UserID, "err", err)
		}
	}
	api.Success(w, evaluation, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQuarterly(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Reports.QuarterlyPerformance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "quarterly_failed", "failed to compute quarterly performance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeDashboard(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) handleOwnDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	h.writeDashboard(w, r, user.UserID)
}

func (h *Handler) writeDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	dashboard, err := h.Reports.QuarterlyDashboard(r.Context(), userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to compute dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}
