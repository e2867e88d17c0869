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

type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{Logger: logger, Service: svc}
}

// SubmitFeedbackRequest is the request body for POST /api/retours.
type SubmitFeedbackRequest struct {
	AccessToken        string `json:"access_token"`
	OverallRating      int    `json:"overall_rating"`
	ContentRating      int    `json:"content_rating"`
	OrganizationRating int    `json:"organization_rating"`
	Comment            string `json:"comment"`
	Suggestions        string `json:"suggestions"`
	WouldRecommend     bool   `json:"would_recommend"`
	ParticipantName    string `json:"participant_name"`
	ParticipantEmail   string `json:"participant_email"`
}

// Validate implements Validator.
func (s SubmitFeedbackRequest) Validate() []string {
	var errs []string
	if s.AccessToken == "" {
		errs = append(errs, "access_token is required")
	}
	for _, r := range []struct {
		name  string
		value int
	}{
		{"overall_rating", s.OverallRating},
		{"content_rating", s.ContentRating},
		{"organization_rating", s.OrganizationRating},
	} {
		if r.value < 1 || r.value > 5 {
			errs = append(errs, r.name+" must be between 1 and 5")
		}
	}
	if s.ParticipantEmail != "" && !emailRegex.MatchString(strings.TrimSpace(s.ParticipantEmail)) {
		errs = append(errs, "participant_email must be a valid email address")
	}
	return errs
}

// SubmitFeedbackSuccessResponse is the success response envelope for POST /api/retours (201).
type SubmitFeedbackSuccessResponse struct {
	Data  *domain.Feedback  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Submit godoc
// @Summary Submit feedback for an activity
// @Description Records anonymous feedback against the activity identified by the access token. Public; the token is the capability. Multiple submissions are allowed.
// @Tags feedbacks
// @Accept json
// @Produce json
// @Param feedback body SubmitFeedbackRequest true "Feedback data with access token"
// @Success 201 {object} controllers.SubmitFeedbackSuccessResponse "data contains the recorded feedback"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (ratings out of range or closed activity)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/retours [post]
func (c *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	feedback, err := c.Service.Submit(r.Context(), domain.FeedbackSubmission{
		AccessToken:        req.AccessToken,
		OverallRating:      req.OverallRating,
		ContentRating:      req.ContentRating,
		OrganizationRating: req.OrganizationRating,
		Comment:            req.Comment,
		Suggestions:        req.Suggestions,
		WouldRecommend:     req.WouldRecommend,
		ParticipantName:    req.ParticipantName,
		ParticipantEmail:   req.ParticipantEmail,
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
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, feedback)
}

// ListFeedbacksResponse is the data payload for GET /api/retours/{activityId} (200).
type ListFeedbacksResponse struct {
	Feedbacks []*domain.Feedback    `json:"feedbacks"`
	Stats     *domain.FeedbackStats `json:"stats"`
}

// ListFeedbacksSuccessResponse is the success response envelope for GET /api/retours/{activityId} (200).
type ListFeedbacksSuccessResponse struct {
	Data  ListFeedbacksResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListForActivity godoc
// @Summary List feedbacks of an activity with aggregate stats
// @Description Returns feedbacks and rating averages plus the recommend percentage. Participants cannot consult feedbacks; activities outside the caller's scope answer 404.
// @Tags feedbacks
// @Produce json
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Success 200 {object} controllers.ListFeedbacksSuccessResponse "data contains feedbacks and stats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/retours/{activityId} [get]
func (c *FeedbackController) ListForActivity(w http.ResponseWriter, r *http.Request) {
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
	feedbacks, stats, err := c.Service.ListForActivity(r.Context(), viewer, activityID)
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
	if feedbacks == nil {
		feedbacks = []*domain.Feedback{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListFeedbacksResponse{Feedbacks: feedbacks, Stats: stats})
}
