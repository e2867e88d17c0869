package services

import (
	"context"
	"testing"
	"time"

	"semecity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceService_Submit(t *testing.T) {
	ctx := context.Background()

	submission := func(token string) domain.AttendanceSubmission {
		return domain.AttendanceSubmission{
			AccessToken: token,
			FirstName:   "  Awa ",
			LastName:    "Kone",
			Email:       "Awa.Kone@Example.com",
		}
	}

	t.Run("unknown token", func(t *testing.T) {
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeActivityRepo(), newFakeUserRepo(), newFakeRegistrationRepo())
		_, err := svc.Submit(ctx, submission("nope"))
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("closed activity", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityClosed})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, newFakeUserRepo(), newFakeRegistrationRepo())
		_, err := svc.Submit(ctx, submission("tok"))
		require.ErrorIs(t, err, domain.ErrActivityClosed)
	})

	t.Run("walk-in success normalizes email", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive})
		attendances := newFakeAttendanceRepo()
		svc := NewAttendanceService(attendances, activities, newFakeUserRepo(), newFakeRegistrationRepo())

		a, err := svc.Submit(ctx, submission("tok"))
		require.NoError(t, err)
		assert.Equal(t, "awa.kone@example.com", a.Email)
		assert.Equal(t, "Awa", a.FirstName)
		assert.Equal(t, "a1", a.ActivityID)
		require.Len(t, attendances.created, 1)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, newFakeUserRepo(), newFakeRegistrationRepo())

		_, err := svc.Submit(ctx, submission("tok"))
		require.NoError(t, err)
		_, err = svc.Submit(ctx, submission("tok"))
		require.ErrorIs(t, err, domain.ErrDuplicateAttendance)
	})

	t.Run("registration required and email has no account", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive, RequiresRegistration: true})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, newFakeUserRepo(), newFakeRegistrationRepo())
		_, err := svc.Submit(ctx, submission("tok"))
		require.ErrorIs(t, err, domain.ErrRegistrationRequired)
	})

	t.Run("registration required and user not registered", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive, RequiresRegistration: true})
		users := newFakeUserRepo()
		users.add(&domain.User{ID: "u1", Email: "awa.kone@example.com"})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, users, newFakeRegistrationRepo())
		_, err := svc.Submit(ctx, submission("tok"))
		require.ErrorIs(t, err, domain.ErrRegistrationRequired)
	})

	t.Run("registration required and satisfied", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive, RequiresRegistration: true})
		users := newFakeUserRepo()
		users.add(&domain.User{ID: "u1", Email: "awa.kone@example.com"})
		registrations := newFakeRegistrationRepo()
		registrations.add(&domain.Registration{ID: "r1", UserID: "u1", ActivityID: "a1", CreatedAt: time.Now()})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, users, registrations)

		a, err := svc.Submit(ctx, submission("tok"))
		require.NoError(t, err)
		assert.Equal(t, "a1", a.ActivityID)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		activities := newFakeActivityRepo()
		activities.add(&domain.Activity{ID: "a1", AccessToken: "tok", Status: domain.ActivityActive})
		svc := NewAttendanceService(newFakeAttendanceRepo(), activities, newFakeUserRepo(), newFakeRegistrationRepo())
		in := submission("tok")
		in.Email = "not-an-email"
		_, err := svc.Submit(ctx, in)
		require.Error(t, err)
	})
}

func TestAttendanceService_ListForActivity(t *testing.T) {
	ctx := context.Background()
	activities := newFakeActivityRepo()
	activities.add(&domain.Activity{ID: "a1", ServiceID: "svc-1", Status: domain.ActivityActive})
	attendances := newFakeAttendanceRepo()
	attendances.byActivity["a1"] = []*domain.Attendance{{ID: "at1", ActivityID: "a1"}}
	svc := NewAttendanceService(attendances, activities, newFakeUserRepo(), newFakeRegistrationRepo())

	t.Run("participant forbidden even for visible activity", func(t *testing.T) {
		_, err := svc.ListForActivity(ctx, domain.Viewer{ID: "p", Role: domain.RoleParticipant}, "a1")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cross-service responsable gets not found", func(t *testing.T) {
		_, err := svc.ListForActivity(ctx, domain.Viewer{ID: "r", Role: domain.RoleResponsableService, ServiceID: "svc-2"}, "a1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("owning responsable lists", func(t *testing.T) {
		list, err := svc.ListForActivity(ctx, domain.Viewer{ID: "r", Role: domain.RoleResponsableService, ServiceID: "svc-1"}, "a1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "at1", list[0].ID)
	})
}
