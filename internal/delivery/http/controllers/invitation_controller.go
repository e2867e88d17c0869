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

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// ListInvitationsSuccessResponse is the success response envelope for GET /api/invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  []*domain.Invitation `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// List godoc
// @Summary List invitations
// @Description Returns invitations: admins see all, responsables those of their own service.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data is an array of invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invitations [get]
func (c *InvitationController) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invitations, err := c.Service.List(r.Context(), viewer)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invitations)
}

// CreateInvitationRequest is the request body for POST /api/invitations.
type CreateInvitationRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	ServiceID string `json:"service_id"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if c.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(c.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	if c.Role == "" {
		errs = append(errs, "role is required")
	} else if !domain.Role(c.Role).Valid() {
		errs = append(errs, "unknown role")
	}
	return errs
}

// CreateInvitationSuccessResponse is the success response envelope for POST /api/invitations (201).
type CreateInvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Create godoc
// @Summary Send an invitation
// @Description Creates an invitation valid for 7 days and emails the join link. Admins invite any role anywhere; responsables invite intervenants into their own service only.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation body CreateInvitationRequest true "Email, role, and optional service"
// @Success 201 {object} controllers.CreateInvitationSuccessResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing service for a service-bound role)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (user exists or invitation pending)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invitations [post]
func (c *InvitationController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	inv, err := c.Service.Create(r.Context(), viewer, req.Email, domain.Role(req.Role), req.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrServiceRequired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "a service is required for this role")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a user with that email already exists")
			return
		}
		if errors.Is(err, domain.ErrInvitationPending) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "an invitation is already pending for that email")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// InvitationInfoSuccessResponse is the success response envelope for GET /api/invitations/accept (200).
type InvitationInfoSuccessResponse struct {
	Data  *domain.InvitationInfo `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// GetInfo godoc
// @Summary Get invitation details by token
// @Description Returns the invited email, role, service, inviter, and expired/accepted flags for the accept page. Public.
// @Tags invitations
// @Produce json
// @Param token query string true "Invitation token"
// @Success 200 {object} controllers.InvitationInfoSuccessResponse "data contains the invitation info"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invitations/accept [get]
func (c *InvitationController) GetInfo(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	info, err := c.Service.GetInfo(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, info)
}

// AcceptInvitationRequest is the request body for POST /api/invitations/accept.
type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (a AcceptInvitationRequest) Validate() []string {
	var errs []string
	if a.Token == "" {
		errs = append(errs, "token is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, "name is required")
	}
	if len(a.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// AcceptInvitationSuccessResponse is the success response envelope for POST /api/invitations/accept (201).
type AcceptInvitationSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Accept godoc
// @Summary Accept an invitation
// @Description Creates the invited account with the invitation's role and service, already email-verified, and marks the invitation accepted. Both happen in one transaction. Public.
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body AcceptInvitationRequest true "Token, display name, and password"
// @Success 201 {object} controllers.AcceptInvitationSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (accepted or expired invitation)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown token)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (account already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invitations/accept [post]
func (c *InvitationController) Accept(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Accept(r.Context(), req.Token, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
			return
		}
		if errors.Is(err, domain.ErrInvitationAccepted) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invitation already accepted")
			return
		}
		if errors.Is(err, domain.ErrInvitationExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invitation expired")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "an account with that email already exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}
