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

type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{Logger: logger, Service: svc}
}

// SubmitAttendanceRequest is the request body for POST /api/presences.
type SubmitAttendanceRequest struct {
	AccessToken  string `json:"access_token"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Signature    string `json:"signature"`
}

// Validate implements Validator.
func (s SubmitAttendanceRequest) Validate() []string {
	var errs []string
	if s.AccessToken == "" {
		errs = append(errs, "access_token is required")
	}
	if strings.TrimSpace(s.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(s.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if s.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(s.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

// SubmitAttendanceSuccessResponse is the success response envelope for POST /api/presences (201).
type SubmitAttendanceSuccessResponse struct {
	Data  *domain.Attendance `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Submit godoc
// @Summary Record a walk-in attendance
// @Description Records an attendance against the activity identified by the access token. Public; the token is the capability. One attendance per email per activity.
// @Tags attendances
// @Accept json
// @Produce json
// @Param attendance body SubmitAttendanceRequest true "Attendance data with access token"
// @Success 201 {object} controllers.SubmitAttendanceSuccessResponse "data contains the recorded attendance"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (closed activity or registration required)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown token)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already signed in)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/presences [post]
func (c *AttendanceController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendance, err := c.Service.Submit(r.Context(), domain.AttendanceSubmission{
		AccessToken:  req.AccessToken,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		Signature:    req.Signature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "activity not found")
			return
		}
		if errors.Is(err, domain.ErrActivityClosed) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "activity is closed")
			return
		}
		if errors.Is(err, domain.ErrRegistrationRequired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "registration is required for this activity")
			return
		}
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "attendance already recorded for this email")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, attendance)
}

// ListAttendancesSuccessResponse is the success response envelope for GET /api/presences/{activityId} (200).
type ListAttendancesSuccessResponse struct {
	Data  []*domain.Attendance `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListForActivity godoc
// @Summary List attendances of an activity
// @Description Returns the attendance sheet. Participants cannot consult attendances; activities outside the caller's scope answer 404.
// @Tags attendances
// @Produce json
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Success 200 {object} controllers.ListAttendancesSuccessResponse "data is an array of attendances"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/presences/{activityId} [get]
func (c *AttendanceController) ListForActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	if activityID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing activityId")
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	attendances, err := c.Service.ListForActivity(r.Context(), viewer, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "activity not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if attendances == nil {
		attendances = []*domain.Attendance{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendances)
}
