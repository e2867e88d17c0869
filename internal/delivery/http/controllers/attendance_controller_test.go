package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeAttendanceService implements domain.AttendanceService for handler tests.
type fakeAttendanceService struct {
	submitAttendance *domain.Attendance
	submitErr        error
	lastSubmission   domain.AttendanceSubmission
	listAttendances  []*domain.Attendance
	listErr          error
}

func (f *fakeAttendanceService) Submit(ctx context.Context, in domain.AttendanceSubmission) (*domain.Attendance, error) {
	f.lastSubmission = in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitAttendance, nil
}

func (f *fakeAttendanceService) ListForActivity(ctx context.Context, v domain.Viewer, activityID string) ([]*domain.Attendance, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listAttendances, nil
}

func TestAttendanceController_Submit(t *testing.T) {
	validBody := map[string]any{
		"access_token": "tok",
		"first_name":   "Awa",
		"last_name":    "Koné",
		"email":        "awa@semecity.bj",
	}

	tests := []struct {
		name         string
		body         map[string]any
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "created",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "missing email",
			body:         map[string]any{"access_token": "tok", "first_name": "Awa", "last_name": "Koné"},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown token",
			body:         validBody,
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "closed activity",
			body:         validBody,
			fakeErr:      domain.ErrActivityClosed,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "registration required",
			body:         validBody,
			fakeErr:      domain.ErrRegistrationRequired,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate attendance",
			body:         validBody,
			fakeErr:      domain.ErrDuplicateAttendance,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "service error",
			body:         validBody,
			fakeErr:      assert.AnError,
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAttendanceService{
				submitAttendance: &domain.Attendance{ID: "at-1", Email: "awa@semecity.bj", ActivityID: "a1"},
				submitErr:        tt.fakeErr,
			}
			ctrl := NewAttendanceController(testLogger(), fake)

			payload, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "http://test/api/presences", bytes.NewReader(payload))
			rr := httptest.NewRecorder()

			ctrl.Submit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "tok", fake.lastSubmission.AccessToken)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestAttendanceController_Submit_UnknownField(t *testing.T) {
	ctrl := NewAttendanceController(testLogger(), &fakeAttendanceService{})

	req := httptest.NewRequest(http.MethodPost, "http://test/api/presences",
		bytes.NewReader([]byte(`{"access_token":"tok","first_name":"Awa","last_name":"Koné","email":"awa@semecity.bj","extra":true}`)))
	rr := httptest.NewRecorder()

	ctrl.Submit(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttendanceController_ListForActivity(t *testing.T) {
	viewer := domain.Viewer{ID: "adm", Role: domain.RoleAdmin}

	tests := []struct {
		name         string
		withViewer   bool
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{name: "success", withViewer: true, wantStatus: http.StatusOK},
		{name: "no viewer in context", wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "forbidden", withViewer: true, fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantBodyCode: helpers.ErrCodeForbidden},
		{name: "not found", withViewer: true, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantBodyCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAttendanceService{listErr: tt.fakeErr}
			ctrl := NewAttendanceController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/api/presences/a1", nil)
			req.SetPathValue("activityId", "a1")
			if tt.withViewer {
				req = req.WithContext(middleware.SetViewer(req.Context(), viewer))
			}
			rr := httptest.NewRecorder()

			ctrl.ListForActivity(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestAttendanceController_ListForActivity_EmptyIsArray(t *testing.T) {
	ctrl := NewAttendanceController(testLogger(), &fakeAttendanceService{})

	req := httptest.NewRequest(http.MethodGet, "http://test/api/presences/a1", nil)
	req.SetPathValue("activityId", "a1")
	req = req.WithContext(middleware.SetViewer(req.Context(), domain.Viewer{ID: "adm", Role: domain.RoleAdmin}))
	rr := httptest.NewRecorder()

	ctrl.ListForActivity(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}
