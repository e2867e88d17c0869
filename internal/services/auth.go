package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"semecity/internal/domain"
)

const (
	verificationTokenBytes  = 32
	verificationTokenExpiry = 24 * time.Hour
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo         domain.UserRepository
	verificationRepo domain.VerificationTokenRepository
	hasher           domain.PasswordHasher
	tokenIssuer      domain.TokenIssuer
	sessionExpiry    time.Duration
	emailService     domain.EmailService
	appURL           string
	logger           *slog.Logger
}

// NewAuthService creates an AuthService with the given repositories and auth ports.
func NewAuthService(
	userRepo domain.UserRepository,
	verificationRepo domain.VerificationTokenRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	sessionExpiry time.Duration,
	emailService domain.EmailService,
	appURL string,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		hasher:           hasher,
		tokenIssuer:      tokenIssuer,
		sessionExpiry:    sessionExpiry,
		emailService:     emailService,
		appURL:           appURL,
		logger:           logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	// Invitation-pending accounts have no password yet.
	if user.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.EmailVerified == nil {
		return "", nil, domain.ErrEmailNotVerified
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(domain.Viewer{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		ServiceID:   user.ServiceID,
		ServiceName: user.ServiceName,
	}, s.sessionExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.NewUser(strings.TrimSpace(name), email, hash, domain.RoleParticipant, "", now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := generateToken(verificationTokenBytes)
	if err != nil {
		return nil, err
	}
	if err := s.verificationRepo.Create(ctx, email, token, now.Add(verificationTokenExpiry)); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	// Best effort: the account exists either way, a new verification email
	// can be requested later.
	if s.emailService != nil {
		data := &domain.VerificationEmailData{
			Email:     email,
			Name:      user.Name,
			VerifyURL: s.appURL + "/verifier-email?token=" + token,
		}
		if err := s.emailService.SendVerification(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "verification email failed", "email", email, "err", err)
		}
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.verificationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("failed to get verification token: %w", err)
	}
	now := time.Now()
	if vt.ExpiresAt.Before(now) {
		if err := s.verificationRepo.Delete(ctx, token); err != nil {
			return fmt.Errorf("failed to delete expired token: %w", err)
		}
		return domain.ErrTokenExpired
	}
	if err := s.userRepo.MarkEmailVerified(ctx, vt.Identifier, now); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if err := s.verificationRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}
