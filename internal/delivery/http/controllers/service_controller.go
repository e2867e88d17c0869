package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/domain"
)

type ServiceController struct {
	Logger  *slog.Logger
	Service domain.ServiceService
}

func NewServiceController(logger *slog.Logger, svc domain.ServiceService) *ServiceController {
	return &ServiceController{Logger: logger, Service: svc}
}

// ListServicesSuccessResponse is the success response envelope for GET /api/services (200).
type ListServicesSuccessResponse struct {
	Data  []*domain.Service `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List services
// @Description Returns all services with user and activity counts. Admin only.
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListServicesSuccessResponse "data is an array of services"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/services [get]
func (c *ServiceController) List(w http.ResponseWriter, r *http.Request) {
	services, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if services == nil {
		services = []*domain.Service{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, services)
}

// GetServiceSuccessResponse is the success response envelope for GET /api/services/{id} (200).
type GetServiceSuccessResponse struct {
	Data  *domain.Service   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a service by ID
// @Description Returns the service with its member users and activity count. Admin only.
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} controllers.GetServiceSuccessResponse "data contains the service"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/services/{id} [get]
func (c *ServiceController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	svc, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "service not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, svc)
}

// CreateServiceRequest is the request body for POST /api/services.
type CreateServiceRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateServiceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Slug) == "" {
		errs = append(errs, "slug is required")
	}
	return errs
}

// CreateServiceSuccessResponse is the success response envelope for POST /api/services (201).
type CreateServiceSuccessResponse struct {
	Data  *domain.Service   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create a service
// @Description Creates an organizational unit. Name and slug must be unique. Admin only.
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param service body CreateServiceRequest true "Service data"
// @Success 201 {object} controllers.CreateServiceSuccessResponse "data contains the created service"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name or slug)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/services [post]
func (c *ServiceController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	svc, err := c.Service.Create(r.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateService) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a service with that name or slug already exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, svc)
}

// UpdateServiceRequest is the request body for PUT /api/services/{id}.
// All fields optional; omitted fields are unchanged.
type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// Validate implements Validator.
func (u UpdateServiceRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Slug != nil && strings.TrimSpace(*u.Slug) == "" {
		errs = append(errs, "slug cannot be empty")
	}
	return errs
}

// UpdateServiceSuccessResponse is the success response envelope for PUT /api/services/{id} (200).
type UpdateServiceSuccessResponse struct {
	Data  *domain.Service   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update a service
// @Description Partially updates a service. Name and slug must stay unique. Admin only.
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param body body UpdateServiceRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateServiceSuccessResponse "data contains the updated service"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name or slug)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/services/{id} [put]
func (c *ServiceController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateServiceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	svc, err := c.Service.Update(r.Context(), id, domain.ServiceUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "service not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateService) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a service with that name or slug already exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, svc)
}

// DeleteServiceResponse is the data payload for DELETE /api/services/{id} (200).
type DeleteServiceResponse struct {
	Status string `json:"status"`
}

// DeleteServiceSuccessResponse is the success response envelope for DELETE /api/services/{id} (200).
type DeleteServiceSuccessResponse struct {
	Data  DeleteServiceResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Delete godoc
// @Summary Delete a service
// @Description Deletes a service. Refused while the service still owns users or activities. Admin only.
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} controllers.DeleteServiceSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (service still owns users or activities)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/services/{id} [delete]
func (c *ServiceController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "service not found")
			return
		}
		if errors.Is(err, domain.ErrServiceNotEmpty) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "service still owns users or activities")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteServiceResponse{Status: "deleted"})
}
