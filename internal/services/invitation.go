package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"semecity/internal/domain"
)

const (
	invitationTokenBytes = 32
	invitationExpiry     = 7 * 24 * time.Hour
)

func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "Administrateur"
	case domain.RoleResponsableService:
		return "Responsable de service"
	case domain.RoleIntervenant:
		return "Intervenant"
	default:
		return "Participant"
	}
}

type invitationService struct {
	invitationRepo domain.InvitationRepository
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	emailService   domain.EmailService
	appURL         string
	logger         *slog.Logger
}

// NewInvitationService creates an InvitationService.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	emailService domain.EmailService,
	appURL string,
	logger *slog.Logger,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		hasher:         hasher,
		emailService:   emailService,
		appURL:         appURL,
		logger:         logger,
	}
}

func (s *invitationService) List(ctx context.Context, v domain.Viewer) ([]*domain.Invitation, error) {
	serviceID := ""
	switch v.Role {
	case domain.RoleAdmin:
	case domain.RoleResponsableService:
		// A serviceless responsable has no service to list for.
		if v.ServiceID == "" {
			return []*domain.Invitation{}, nil
		}
		serviceID = v.ServiceID
	default:
		return nil, domain.ErrForbidden
	}
	invitations, err := s.invitationRepo.List(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (s *invitationService) Create(ctx context.Context, v domain.Viewer, email string, role domain.Role, serviceID string) (*domain.Invitation, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if !v.CanInvite(role, serviceID) {
		return nil, domain.ErrForbidden
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email %q", email)
	}

	// A responsable inviting with no explicit service invites into their own.
	if serviceID == "" && v.Role == domain.RoleResponsableService {
		serviceID = v.ServiceID
	}
	// Service-bound roles must land in a concrete service; otherwise the
	// account would be affiliated to nothing and see nothing.
	if (role == domain.RoleResponsableService || role == domain.RoleIntervenant) && serviceID == "" {
		return nil, domain.ErrServiceRequired
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	pending, err := s.invitationRepo.HasPending(ctx, email, now)
	if err != nil {
		return nil, fmt.Errorf("check pending invitation: %w", err)
	}
	if pending {
		return nil, domain.ErrInvitationPending
	}

	token, err := generateToken(invitationTokenBytes)
	if err != nil {
		return nil, err
	}
	inv := &domain.Invitation{
		Email:     email,
		Role:      role,
		ServiceID: serviceID,
		Token:     token,
		ExpiresAt: now.Add(invitationExpiry),
		SenderID:  v.ID,
		CreatedAt: now,
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	data := &domain.InvitationEmailData{
		Email:       email,
		InviteURL:   s.appURL + "/invitation/" + token,
		InviterName: v.Name,
		RoleLabel:   roleLabel(role),
		ServiceName: inv.ServiceName,
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "invitation email failed", "email", email, "error", err)
	}
	return inv, nil
}

func (s *invitationService) GetInfo(ctx context.Context, token string) (*domain.InvitationInfo, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &domain.InvitationInfo{
		Email:       inv.Email,
		Role:        inv.Role,
		ServiceName: inv.ServiceName,
		InviterName: inv.SenderName,
		Expired:     inv.Expired(time.Now()),
		Accepted:    inv.Accepted(),
	}, nil
}

func (s *invitationService) Accept(ctx context.Context, token, name, password string) (*domain.User, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	now := time.Now()
	if inv.Accepted() {
		return nil, domain.ErrInvitationAccepted
	}
	if inv.Expired(now) {
		return nil, domain.ErrInvitationExpired
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password too short")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(name, inv.Email, hash, inv.Role, inv.ServiceID, now, now)
	// Invited addresses are trusted: the account is verified on creation.
	user.EmailVerified = &now
	if err := s.invitationRepo.Accept(ctx, inv.ID, user, now); err != nil {
		return nil, err
	}
	return user, nil
}
