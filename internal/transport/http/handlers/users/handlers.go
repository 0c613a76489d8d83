package usershandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/users"
	"evaltrack/internal/transport/http/api"
	"evaltrack/internal/transport/http/middleware"
	"evaltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *users.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/{userID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Post("/", h.handleRegister)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequireAuth).Put("/{userID}/password", h.handleChangePassword)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Delete("/{userID}", h.handleDelete)
	})
}

type userPayload struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	JobTitle         string   `json:"jobTitle"`
	Level            string   `json:"level"`
	DepartmentID     *string  `json:"departmentId"`
	TeamID           *string  `json:"teamId"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	EmergencyContact string   `json:"emergencyContact"`
	Salary           *float64 `json:"salary"`
	ProfileImage     string   `json:"profileImage"`
	Role             string   `json:"role"`
	Status           string   `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	filter := users.Filter{
		Department: r.URL.Query().Get("department"),
		Role:       r.URL.Query().Get("role"),
	}
	// Team leaders only see their own team's roster.
	if user.RoleName == auth.RoleTeamLeader {
		filter.RestrictToTeamOf = user.UserID
	}

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_get_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleTeamManager, auth.RoleTeamLeader, auth.RoleStaff}, "unknown role")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	role := payload.Role
	if role == "" {
		role = auth.RoleStaff
	}
	roleID, err := h.Service.RoleIDByName(r.Context(), role)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.Register(r.Context(), users.User{
		Name:             payload.Name,
		Email:            payload.Email,
		JobTitle:         payload.JobTitle,
		Level:            payload.Level,
		DepartmentID:     payload.DepartmentID,
		TeamID:           payload.TeamID,
		Phone:            payload.Phone,
		Address:          payload.Address,
		EmergencyContact: payload.EmergencyContact,
		Salary:           payload.Salary,
		ProfileImage:     payload.ProfileImage,
		RoleID:           roleID,
		Status:           payload.Status,
	}, payload.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailExists) {
			api.Fail(w, http.StatusConflict, "email_exists", "a user with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to register user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	userID := chi.URLParam(r, "userID")
	current, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}

	roleID := current.RoleID
	if payload.Role != "" {
		resolved, err := h.Service.RoleIDByName(r.Context(), payload.Role)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", middleware.GetRequestID(r.Context()))
			return
		}
		roleID = resolved
	}

	status := payload.Status
	if status == "" {
		status = current.Status
	}

	err = h.Service.Update(r.Context(), users.User{
		ID:               userID,
		Name:             payload.Name,
		Email:            payload.Email,
		JobTitle:         payload.JobTitle,
		Level:            payload.Level,
		DepartmentID:     payload.DepartmentID,
		TeamID:           payload.TeamID,
		Phone:            payload.Phone,
		Address:          payload.Address,
		EmergencyContact: payload.EmergencyContact,
		Salary:           payload.Salary,
		ProfileImage:     payload.ProfileImage,
		RoleID:           roleID,
		Status:           status,
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

type changePasswordPayload struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// handleChangePassword lets a user rotate their own password. Knowing the
// old password is the proof of identity, so there is no admin override here.
func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")
	if user.UserID != userID {
		api.Fail(w, http.StatusForbidden, "forbidden", "you may only change your own password", middleware.GetRequestID(r.Context()))
		return
	}

	var payload changePasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "new password must be at least 8 characters", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, payload.OldPassword, payload.NewPassword); err != nil {
		if errors.Is(err, users.ErrBadPassword) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "old password is incorrect", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "password_change_failed", "failed to change password", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "password_changed"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_delete_failed", "failed to delete user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
