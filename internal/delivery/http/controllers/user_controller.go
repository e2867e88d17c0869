package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

// ListUsersSuccessResponse is the success response envelope for GET /api/users (200).
type ListUsersSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List users
// @Description Returns users, optionally filtered by role, service_id, and a case-insensitive search over name and email. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param service_id query string false "Filter by service"
// @Param search query string false "Filter names/emails containing this string"
// @Success 200 {object} controllers.ListUsersSuccessResponse "data is an array of users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown role)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.UserFilter{
		ServiceID: q.Get("service_id"),
		Search:    strings.TrimSpace(q.Get("search")),
	}
	if role := q.Get("role"); role != "" {
		filter.Role = domain.Role(role)
		if !filter.Role.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown role")
			return
		}
	}
	users, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetUserSuccessResponse is the success response envelope for GET /api/users/{id} (200).
type GetUserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a user by ID
// @Description Returns the user with created-activity and registration counts. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} controllers.GetUserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/{id} [get]
func (c *UserController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	user, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateUserRequest is the request body for PUT /api/users/{id}.
// All fields optional; omitted fields are unchanged.
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	ServiceID *string `json:"service_id"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Email != nil && !emailRegex.MatchString(strings.TrimSpace(*u.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	if u.Role != nil && !domain.Role(*u.Role).Valid() {
		errs = append(errs, "unknown role")
	}
	return errs
}

// UpdateUserSuccessResponse is the success response envelope for PUT /api/users/{id} (200).
type UpdateUserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update a user
// @Description Partially updates a user's name, email, role, or service affiliation. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body UpdateUserRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateUserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/{id} [put]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.UserUpdate{
		Name:      req.Name,
		Email:     req.Email,
		ServiceID: req.ServiceID,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}
	user, err := c.Service.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// DeleteUserResponse is the data payload for DELETE /api/users/{id} (200).
type DeleteUserResponse struct {
	Status string `json:"status"`
}

// DeleteUserSuccessResponse is the success response envelope for DELETE /api/users/{id} (200).
type DeleteUserSuccessResponse struct {
	Data  DeleteUserResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Delete godoc
// @Summary Delete a user
// @Description Deletes a user account. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} controllers.DeleteUserSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteUserResponse{Status: "deleted"})
}

// ListIntervenants godoc
// @Summary List intervenants
// @Description Returns the intervenant directory used by activity forms. Admins may filter by service_id; responsables always see their own service.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param service_id query string false "Filter by service (admin only)"
// @Success 200 {object} controllers.ListUsersSuccessResponse "data is an array of intervenants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/intervenants [get]
func (c *UserController) ListIntervenants(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	users, err := c.Service.ListIntervenants(r.Context(), viewer, r.URL.Query().Get("service_id"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// HistorySuccessResponse is the success response envelope for GET /api/participant/history (200).
type HistorySuccessResponse struct {
	Data  *domain.ParticipantHistory `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// History godoc
// @Summary Get the caller's participation history
// @Description Returns past attendances and feedbacks matched by the caller's email address.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.HistorySuccessResponse "data contains attendances and feedbacks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participant/history [get]
func (c *UserController) History(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	history, err := c.Service.History(r.Context(), viewer)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, history)
}
