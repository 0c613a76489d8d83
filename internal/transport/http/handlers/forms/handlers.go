package formshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/audit"
	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/forms"
	"evaltrack/internal/domain/scoring"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
	"evaltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *forms.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *forms.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) recordAudit(r *http.Request, action, formID string, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "evaluation_form", formID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/forms", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFormsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermFormsRead, h.Perms)).Get("/team/{teamID}", h.handleListByTeam)
		r.With(middleware.RequirePermission(auth.PermFormsRead, h.Perms)).Get("/{formID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermFormsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermFormsWrite, h.Perms)).Put("/{formID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermFormsWrite, h.Perms)).Delete("/{formID}", h.handleDeactivate)
	})
}

type formPayload struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	FormType        string                `json:"formType"`
	TargetEvaluator string                `json:"targetEvaluator"`
	Weight          float64               `json:"weight"`
	Sections        []scoring.Section     `json:"sections"`
	RatingScale     []scoring.RatingLevel `json:"ratingScale"`
	TeamID          *string               `json:"teamId"`
	PeriodID        *string               `json:"periodId"`
	Status          string                `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []forms.Form
		err  error
	)
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	if teamID := r.URL.Query().Get("teamId"); teamID != "" {
		list, err = h.Service.ListByTeam(r.Context(), teamID, includeInactive)
	} else {
		list, err = h.Service.List(r.Context(), includeInactive)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "form_list_failed", "failed to list evaluation forms", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListByTeam(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	list, err := h.Service.ListByTeam(r.Context(), chi.URLParam(r, "teamID"), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "form_list_failed", "failed to list evaluation forms", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	form, err := h.Service.Get(r.Context(), chi.URLParam(r, "formID"), includeInactive)
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "evaluation form not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "form_get_failed", "failed to load evaluation form", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, form, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload formPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Enum("formType", payload.FormType, []string{forms.TypePeerEvaluation, forms.TypeSelfAssessment}, "unknown form type")
	v.Enum("status", payload.Status, []string{forms.StatusActive, forms.StatusInactive}, "unknown status")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	form := forms.Form{
		Title:           payload.Title,
		Description:     payload.Description,
		FormType:        payload.FormType,
		TargetEvaluator: payload.TargetEvaluator,
		Weight:          payload.Weight,
		Sections:        payload.Sections,
		RatingScale:     payload.RatingScale,
		TeamID:          payload.TeamID,
		PeriodID:        payload.PeriodID,
		Status:          payload.Status,
		CreatedBy:       user.UserID,
	}

	id, err := h.Service.Create(r.Context(), form)
	if err != nil {
		if isWeightError(err) {
			api.Fail(w, http.StatusBadRequest, "invalid_weights", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "form_create_failed", "failed to create evaluation form", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, "form.create", id, form)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload formPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	form := forms.Form{
		ID:              chi.URLParam(r, "formID"),
		Title:           payload.Title,
		Description:     payload.Description,
		FormType:        payload.FormType,
		TargetEvaluator: payload.TargetEvaluator,
		Weight:          payload.Weight,
		Sections:        payload.Sections,
		RatingScale:     payload.RatingScale,
		TeamID:          payload.TeamID,
		PeriodID:        payload.PeriodID,
		Status:          payload.Status,
	}

	if err := h.Service.Update(r.Context(), form); err != nil {
		switch {
		case errors.Is(err, forms.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "evaluation form not found", middleware.GetRequestID(r.Context()))
		case isWeightError(err):
			api.Fail(w, http.StatusBadRequest, "invalid_weights", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "form_update_failed", "failed to update evaluation form", middleware.GetRequestID(r.Context()))
		}
		return
	}
	h.recordAudit(r, "form.update", form.ID, form)
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Deactivate(r.Context(), chi.URLParam(r, "formID")); err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "evaluation form not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "form_delete_failed", "failed to deactivate evaluation form", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, "form.deactivate", chi.URLParam(r, "formID"), nil)
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func isWeightError(err error) bool {
	return errors.Is(err, scoring.ErrWeightSum) ||
		errors.Is(err, scoring.ErrNoSections) ||
		errors.Is(err, scoring.ErrEmptySection)
}
