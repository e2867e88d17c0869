package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"
)

type ActivityController struct {
	Logger        *slog.Logger
	Service       domain.ActivityService
	ExportService domain.ExportService
}

func NewActivityController(logger *slog.Logger, svc domain.ActivityService, exportSvc domain.ExportService) *ActivityController {
	return &ActivityController{
		Logger:        logger,
		Service:       svc,
		ExportService: exportSvc,
	}
}

// ListActivitiesSuccessResponse is the success response envelope for GET /api/activites (200).
type ListActivitiesSuccessResponse struct {
	Data  []*domain.Activity `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// List godoc
// @Summary List activities visible to the caller
// @Description Returns activities filtered by role: admins see everything, responsables their service, intervenants their assignments, participants ACTIVE activities only.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListActivitiesSuccessResponse "data is an array of activities"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites [get]
func (c *ActivityController) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	activities, err := c.Service.List(r.Context(), viewer)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// GetActivitySuccessResponse is the success response envelope for GET /api/activites/{id} (200).
type GetActivitySuccessResponse struct {
	Data  *domain.Activity  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get an activity by ID
// @Description Returns the activity with attendance and feedback counts. Activities outside the caller's scope answer 404.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} controllers.GetActivitySuccessResponse "data contains the activity"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites/{id} [get]
func (c *ActivityController) GetByID(w http.ResponseWriter, r *http.Request) {
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
	activity, err := c.Service.GetByID(r.Context(), viewer, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "activity not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// GetPublic godoc
// @Summary Get an activity by its public access token
// @Description Returns the activity backing a public attendance or feedback page. No authentication required; the token itself is the capability.
// @Tags activities
// @Produce json
// @Param accessToken path string true "Activity access token"
// @Success 200 {object} controllers.GetActivitySuccessResponse "data contains the activity"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/public/activites/{accessToken} [get]
func (c *ActivityController) GetPublic(w http.ResponseWriter, r *http.Request) {
	accessToken := r.PathValue("accessToken")
	if accessToken == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing accessToken")
		return
	}
	activity, err := c.Service.GetPublic(r.Context(), accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "activity not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// CreateActivityRequest is the request body for POST /api/activites.
type CreateActivityRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Date                 *time.Time `json:"date"`
	Location             string     `json:"location"`
	Status               string     `json:"status"`
	RequiresRegistration bool       `json:"requires_registration"`
	ServiceID            string     `json:"service_id"`
	IntervenantID        string     `json:"intervenant_id"`
}

// Validate implements Validator.
func (c CreateActivityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Date == nil {
		errs = append(errs, "date is required")
	}
	if c.Status != "" && !domain.ActivityStatus(c.Status).Valid() {
		errs = append(errs, "status must be DRAFT, ACTIVE or CLOSED")
	}
	return errs
}

// CreateActivitySuccessResponse is the success response envelope for POST /api/activites (201).
type CreateActivitySuccessResponse struct {
	Data  *domain.Activity  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create an activity
// @Description Creates an activity with a fresh public access token. Admins must name the owning service; responsables create within their own service.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activity body CreateActivityRequest true "Activity data"
// @Success 201 {object} controllers.CreateActivitySuccessResponse "data contains the created activity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing title/date or missing service_id for an admin)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites [post]
func (c *ActivityController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	activity, err := c.Service.Create(r.Context(), viewer, domain.ActivityCreate{
		Title:                req.Title,
		Description:          req.Description,
		Date:                 *req.Date,
		Location:             req.Location,
		Status:               domain.ActivityStatus(req.Status),
		RequiresRegistration: req.RequiresRegistration,
		ServiceID:            req.ServiceID,
		IntervenantID:        req.IntervenantID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrServiceRequired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "service_id is required")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, activity)
}

// UpdateActivityRequest is the request body for PUT /api/activites/{id}.
// All fields optional; omitted fields are unchanged.
type UpdateActivityRequest struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	Date                 *time.Time `json:"date"`
	Location             *string    `json:"location"`
	Status               *string    `json:"status"`
	RequiresRegistration *bool      `json:"requires_registration"`
	IntervenantID        *string    `json:"intervenant_id"`
}

// Validate implements Validator.
func (u UpdateActivityRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Status != nil && !domain.ActivityStatus(*u.Status).Valid() {
		errs = append(errs, "status must be DRAFT, ACTIVE or CLOSED")
	}
	return errs
}

// UpdateActivitySuccessResponse is the success response envelope for PUT /api/activites/{id} (200).
type UpdateActivitySuccessResponse struct {
	Data  *domain.Activity  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update an activity
// @Description Partially updates an activity. Only admins and the owning service's responsable may update; activities outside the caller's scope answer 404.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param body body UpdateActivityRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateActivitySuccessResponse "data contains the updated activity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites/{id} [put]
func (c *ActivityController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upd := domain.ActivityUpdate{
		Title:                req.Title,
		Description:          req.Description,
		Date:                 req.Date,
		Location:             req.Location,
		RequiresRegistration: req.RequiresRegistration,
		IntervenantID:        req.IntervenantID,
	}
	if req.Status != nil {
		status := domain.ActivityStatus(*req.Status)
		upd.Status = &status
	}
	activity, err := c.Service.Update(r.Context(), viewer, id, upd)
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
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// DeleteActivityResponse is the data payload for DELETE /api/activites/{id} (200).
type DeleteActivityResponse struct {
	Status string `json:"status"`
}

// DeleteActivitySuccessResponse is the success response envelope for DELETE /api/activites/{id} (200).
type DeleteActivitySuccessResponse struct {
	Data  DeleteActivityResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// Delete godoc
// @Summary Delete an activity
// @Description Deletes an activity and its attendances, feedbacks, and registrations. Only admins and the owning service's responsable may delete.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} controllers.DeleteActivitySuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites/{id} [delete]
func (c *ActivityController) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Service.Delete(r.Context(), viewer, id); err != nil {
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
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteActivityResponse{Status: "deleted"})
}

// Export godoc
// @Summary Export attendances or feedbacks as CSV
// @Description Streams a CSV attachment with French column headers. Use type=attendances or type=feedbacks; format must be csv. Participants cannot export.
// @Tags activities
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param format query string true "Export format (csv)"
// @Param type query string true "attendances or feedbacks"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activites/{id}/export [get]
func (c *ActivityController) Export(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if format := r.URL.Query().Get("format"); format != "csv" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "format must be csv")
		return
	}
	kind := domain.ExportKind(r.URL.Query().Get("type"))
	if !kind.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "type must be attendances or feedbacks")
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	export, err := c.ExportService.ExportCSV(r.Context(), viewer, id, kind)
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
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}
