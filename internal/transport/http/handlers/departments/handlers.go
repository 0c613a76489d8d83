package departmentshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/departments"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
	"evaltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *departments.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *departments.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead, h.Perms)).Get("/{departmentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Put("/{departmentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite, h.Perms)).Delete("/{departmentID}", h.handleDelete)
	})
}

type departmentPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"managerId"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	dep, err := h.Service.Get(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		if errors.Is(err, departments.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "department_get_failed", "failed to load department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), departments.Department{
		Name:        payload.Name,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	})
	if err != nil {
		if errors.Is(err, departments.ErrNameExists) {
			api.Fail(w, http.StatusConflict, "name_exists", "a department with this name already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.Update(r.Context(), departments.Department{
		ID:          chi.URLParam(r, "departmentID"),
		Name:        payload.Name,
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, departments.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, departments.ErrNameExists):
			api.Fail(w, http.StatusConflict, "name_exists", "a department with this name already exists", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "department_update_failed", "failed to update department", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		if errors.Is(err, departments.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "department_delete_failed", "failed to delete department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
