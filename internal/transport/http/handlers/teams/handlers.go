package teamshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/notifications"
	"evaltrack/internal/domain/teams"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
	"evaltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *teams.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
}

func NewHandler(service *teams.Service, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/teams", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTeamsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTeamsRead, h.Perms)).Get("/{teamID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTeamsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTeamsWrite, h.Perms)).Put("/{teamID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermTeamsWrite, h.Perms)).Delete("/{teamID}", h.handleDelete)
	})
}

type teamPayload struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	LeaderID     *string  `json:"leaderId"`
	DepartmentID *string  `json:"departmentId"`
	MemberIDs    []string `json:"memberIds"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_list_failed", "failed to list teams", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	team, err := h.Service.Get(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, teams.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "team not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "team_get_failed", "failed to load team", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, team, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload teamPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), teams.Team{
		Name:         payload.Name,
		Description:  payload.Description,
		LeaderID:     payload.LeaderID,
		DepartmentID: payload.DepartmentID,
	}, payload.MemberIDs)
	if err != nil {
		var taken *teams.MembersTakenError
		if errors.As(err, &taken) {
			api.FailWithDetails(w, http.StatusConflict, "members_taken", taken.Error(),
				map[string]any{"members": taken.Names}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "team_create_failed", "failed to create team", middleware.GetRequestID(r.Context()))
		return
	}

	h.notifyMembers(r, payload.MemberIDs, "You have been added to a new team.")
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload teamPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.Update(r.Context(), teams.Team{
		ID:           chi.URLParam(r, "teamID"),
		Name:         payload.Name,
		Description:  payload.Description,
		LeaderID:     payload.LeaderID,
		DepartmentID: payload.DepartmentID,
	}, payload.MemberIDs)
	if err != nil {
		var taken *teams.MembersTakenError
		switch {
		case errors.Is(err, teams.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "team not found", middleware.GetRequestID(r.Context()))
		case errors.As(err, &taken):
			api.FailWithDetails(w, http.StatusConflict, "members_taken", taken.Error(),
				map[string]any{"members": taken.Names}, middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "team_update_failed", "failed to update team", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		if errors.Is(err, teams.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "team not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "team_delete_failed", "failed to delete team", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyMembers(r *http.Request, memberIDs []string, body string) {
	if h.Notify == nil {
		return
	}
	for _, memberID := range memberIDs {
		if err := h.Notify.Create(r.Context(), memberID, notifications.TypeTeamAssigned, "Team assignment", body); err != nil {
			slog.Warn("team notification failed", "userId", memberID, "err", err)
		}
	}
}
