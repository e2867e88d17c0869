package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"semecity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitationFixture() (*invitationService, *fakeInvitationRepo, *fakeUserRepo, *fakeEmailService) {
	invitations := newFakeInvitationRepo()
	users := newFakeUserRepo()
	emails := &fakeEmailService{}
	svc := NewInvitationService(invitations, users, &fakePasswordHasher{}, emails, "https://app.semecity.bj", discardLogger()).(*invitationService)
	return svc, invitations, users, emails
}

func TestInvitationService_Create_Policy(t *testing.T) {
	ctx := context.Background()

	admin := domain.Viewer{ID: "adm", Name: "Admin", Role: domain.RoleAdmin}
	resp := domain.Viewer{ID: "rsp", Name: "Resp", Role: domain.RoleResponsableService, ServiceID: "svc-1"}
	intervenant := domain.Viewer{ID: "itv", Role: domain.RoleIntervenant, ServiceID: "svc-1"}

	tests := []struct {
		name      string
		viewer    domain.Viewer
		role      domain.Role
		serviceID string
		wantErr   error
	}{
		{name: "admin invites admin", viewer: admin, role: domain.RoleAdmin},
		{name: "admin invites responsable anywhere", viewer: admin, role: domain.RoleResponsableService, serviceID: "svc-2"},
		{name: "responsable invites intervenant in own service", viewer: resp, role: domain.RoleIntervenant, serviceID: "svc-1"},
		{name: "responsable cannot invite admin", viewer: resp, role: domain.RoleAdmin, wantErr: domain.ErrForbidden},
		{name: "responsable cannot invite into another service", viewer: resp, role: domain.RoleIntervenant, serviceID: "svc-2", wantErr: domain.ErrForbidden},
		{name: "intervenant cannot invite", viewer: intervenant, role: domain.RoleParticipant, wantErr: domain.ErrForbidden},
		{name: "responsable without a service cannot invite", viewer: domain.Viewer{ID: "rsp2", Role: domain.RoleResponsableService}, role: domain.RoleIntervenant, serviceID: "svc-1", wantErr: domain.ErrForbidden},
		{name: "admin must name a service for a responsable", viewer: admin, role: domain.RoleResponsableService, wantErr: domain.ErrServiceRequired},
		{name: "admin must name a service for an intervenant", viewer: admin, role: domain.RoleIntervenant, wantErr: domain.ErrServiceRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newInvitationFixture()
			_, err := svc.Create(ctx, tt.viewer, "new@semecity.bj", tt.role, tt.serviceID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestInvitationService_Create(t *testing.T) {
	ctx := context.Background()
	admin := domain.Viewer{ID: "adm", Name: "Admin", Role: domain.RoleAdmin}

	t.Run("invalid role", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture()
		_, err := svc.Create(ctx, admin, "x@y.bj", domain.Role("SUPERUSER"), "")
		require.Error(t, err)
	})

	t.Run("existing user conflicts", func(t *testing.T) {
		svc, _, users, _ := newInvitationFixture()
		users.add(&domain.User{ID: "u1", Email: "taken@semecity.bj"})
		_, err := svc.Create(ctx, admin, "taken@semecity.bj", domain.RoleIntervenant, "svc-1")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("pending invitation conflicts", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.pending["waiting@semecity.bj"] = true
		_, err := svc.Create(ctx, admin, "waiting@semecity.bj", domain.RoleIntervenant, "svc-1")
		require.ErrorIs(t, err, domain.ErrInvitationPending)
	})

	t.Run("normalizes email and sets expiry", func(t *testing.T) {
		svc, invitations, _, emails := newInvitationFixture()
		before := time.Now()
		inv, err := svc.Create(ctx, admin, "  New.Person@SemeCity.BJ ", domain.RoleIntervenant, "svc-1")
		require.NoError(t, err)
		assert.Equal(t, "new.person@semecity.bj", inv.Email)
		assert.NotEmpty(t, inv.Token)
		assert.WithinDuration(t, before.Add(7*24*time.Hour), inv.ExpiresAt, 5*time.Second)
		assert.Equal(t, "adm", inv.SenderID)
		require.Len(t, invitations.created, 1)
		require.Len(t, emails.invitations, 1)
		sent := emails.invitations[0]
		assert.Equal(t, "new.person@semecity.bj", sent.Email)
		assert.True(t, strings.HasPrefix(sent.InviteURL, "https://app.semecity.bj/invitation/"))
		assert.Equal(t, "Intervenant", sent.RoleLabel)
		assert.Equal(t, "Admin", sent.InviterName)
	})

	t.Run("email failure does not fail the invitation", func(t *testing.T) {
		svc, invitations, _, emails := newInvitationFixture()
		emails.sendErr = errors.New("ses unavailable")
		inv, err := svc.Create(ctx, admin, "quiet@semecity.bj", domain.RoleParticipant, "")
		require.NoError(t, err)
		assert.NotNil(t, inv)
		require.Len(t, invitations.created, 1)
	})

	t.Run("responsable defaults to own service", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture()
		resp := domain.Viewer{ID: "rsp", Role: domain.RoleResponsableService, ServiceID: "svc-1"}
		inv, err := svc.Create(ctx, resp, "member@semecity.bj", domain.RoleIntervenant, "")
		require.NoError(t, err)
		assert.Equal(t, "svc-1", inv.ServiceID)
	})
}

func TestInvitationService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees all", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.listed = []*domain.Invitation{{ID: "i1"}}
		list, err := svc.List(ctx, domain.Viewer{ID: "adm", Role: domain.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Empty(t, invitations.lastList)
	})

	t.Run("responsable scoped to service", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		_, err := svc.List(ctx, domain.Viewer{ID: "rsp", Role: domain.RoleResponsableService, ServiceID: "svc-1"})
		require.NoError(t, err)
		assert.Equal(t, "svc-1", invitations.lastList)
	})

	t.Run("responsable without a service sees nothing", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.listed = []*domain.Invitation{{ID: "i1"}}
		list, err := svc.List(ctx, domain.Viewer{ID: "rsp", Role: domain.RoleResponsableService})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("intervenant forbidden", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture()
		_, err := svc.List(ctx, domain.Viewer{ID: "itv", Role: domain.RoleIntervenant})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestInvitationService_GetInfo(t *testing.T) {
	ctx := context.Background()
	svc, invitations, _, _ := newInvitationFixture()
	invitations.byToken["tok"] = &domain.Invitation{
		ID:          "i1",
		Email:       "guest@semecity.bj",
		Role:        domain.RoleIntervenant,
		ServiceName: "Incubation",
		SenderName:  "Admin",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}

	info, err := svc.GetInfo(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "guest@semecity.bj", info.Email)
	assert.Equal(t, "Incubation", info.ServiceName)
	assert.Equal(t, "Admin", info.InviterName)
	assert.True(t, info.Expired)
	assert.False(t, info.Accepted)

	_, err = svc.GetInfo(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvitationService_Accept(t *testing.T) {
	ctx := context.Background()

	fresh := func() *domain.Invitation {
		return &domain.Invitation{
			ID:        "i1",
			Email:     "guest@semecity.bj",
			Role:      domain.RoleIntervenant,
			ServiceID: "svc-1",
			Token:     "tok",
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}
	}

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _, _ := newInvitationFixture()
		_, err := svc.Accept(ctx, "missing", "Guest", "password123")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("already accepted", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		inv := fresh()
		when := time.Now()
		inv.AcceptedAt = &when
		invitations.byToken["tok"] = inv
		_, err := svc.Accept(ctx, "tok", "Guest", "password123")
		require.ErrorIs(t, err, domain.ErrInvitationAccepted)
	})

	t.Run("expired", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		inv := fresh()
		inv.ExpiresAt = time.Now().Add(-time.Minute)
		invitations.byToken["tok"] = inv
		_, err := svc.Accept(ctx, "tok", "Guest", "password123")
		require.ErrorIs(t, err, domain.ErrInvitationExpired)
	})

	t.Run("name required", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.byToken["tok"] = fresh()
		_, err := svc.Accept(ctx, "tok", "   ", "password123")
		require.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.byToken["tok"] = fresh()
		_, err := svc.Accept(ctx, "tok", "Guest", "short")
		require.Error(t, err)
	})

	t.Run("creates verified user with invited role", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.byToken["tok"] = fresh()
		user, err := svc.Accept(ctx, "tok", "Guest", "password123")
		require.NoError(t, err)
		assert.Equal(t, "guest@semecity.bj", user.Email)
		assert.Equal(t, domain.RoleIntervenant, user.Role)
		assert.Equal(t, "svc-1", user.ServiceID)
		assert.Equal(t, "hash-password123", user.PasswordHash)
		require.NotNil(t, user.EmailVerified)
		require.Equal(t, []string{"i1"}, invitations.accepted)
	})

	t.Run("repository conflict passes through", func(t *testing.T) {
		svc, invitations, _, _ := newInvitationFixture()
		invitations.byToken["tok"] = fresh()
		invitations.acceptErr = domain.ErrDuplicateEmail
		_, err := svc.Accept(ctx, "tok", "Guest", "password123")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}
