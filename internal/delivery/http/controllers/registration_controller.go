package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// CreateRegistrationRequest is the request body for POST /api/registrations.
type CreateRegistrationRequest struct {
	ActivityID string `json:"activity_id"`
}

// Validate implements Validator.
func (c CreateRegistrationRequest) Validate() []string {
	if c.ActivityID == "" {
		return []string{"activity_id is required"}
	}
	return nil
}

// CreateRegistrationSuccessResponse is the success response envelope for POST /api/registrations (201).
type CreateRegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Register godoc
// @Summary Register for an activity
// @Description Registers the authenticated participant for an ACTIVE activity that requires advance sign-up. One registration per participant per activity.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body CreateRegistrationRequest true "Activity to register for"
// @Success 201 {object} controllers.CreateRegistrationSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (walk-ins only or activity not open)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reg, err := c.Service.Register(r.Context(), viewer, req.ActivityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "activity not found")
			return
		}
		if errors.Is(err, domain.ErrRegistrationNotRequired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "activity does not take registrations")
			return
		}
		if errors.Is(err, domain.ErrActivityNotOpen) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "activity is not open for registration")
			return
		}
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListRegistrationsSuccessResponse is the success response envelope for GET /api/registrations (200).
type ListRegistrationsSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListMine godoc
// @Summary List the caller's registrations
// @Description Returns the authenticated participant's registrations with a summary of each activity.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse "data is an array of registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListMine(r.Context(), viewer)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CancelRegistrationResponse is the data payload for DELETE /api/registrations/{id} (200).
type CancelRegistrationResponse struct {
	Status string `json:"status"`
}

// CancelRegistrationSuccessResponse is the success response envelope for DELETE /api/registrations/{id} (200).
type CancelRegistrationSuccessResponse struct {
	Data  CancelRegistrationResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes one of the caller's registrations. Another participant's registration answers 404.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.CancelRegistrationSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/{id} [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), viewer, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelRegistrationResponse{Status: "cancelled"})
}
