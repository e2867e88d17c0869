package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"semecity/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	attendanceRepo domain.AttendanceRepository
	feedbackRepo   domain.FeedbackRepository
}

// NewUserService creates a UserService. Admin-only operations rely on the
// delivery layer for the role check.
func NewUserService(
	userRepo domain.UserRepository,
	attendanceRepo domain.AttendanceRepository,
	feedbackRepo domain.FeedbackRepository,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		feedbackRepo:   feedbackRepo,
	}
}

func (s *userService) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", *upd.Role)
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if !emailRegexp.MatchString(email) {
			return nil, fmt.Errorf("invalid email %q", email)
		}
		upd.Email = &email
	}
	user, err := s.userRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListIntervenants returns the intervenant directory for activity forms.
// Responsables are pinned to their own service whatever they ask for.
func (s *userService) ListIntervenants(ctx context.Context, v domain.Viewer, serviceID string) ([]*domain.User, error) {
	switch v.Role {
	case domain.RoleAdmin:
	case domain.RoleResponsableService:
		// A serviceless responsable has no directory to consult.
		if v.ServiceID == "" {
			return []*domain.User{}, nil
		}
		serviceID = v.ServiceID
	default:
		return nil, domain.ErrForbidden
	}
	users, err := s.userRepo.List(ctx, domain.UserFilter{
		Role:      domain.RoleIntervenant,
		ServiceID: serviceID,
	})
	if err != nil {
		return nil, fmt.Errorf("list intervenants: %w", err)
	}
	return users, nil
}

func (s *userService) History(ctx context.Context, v domain.Viewer) (*domain.ParticipantHistory, error) {
	attendances, err := s.attendanceRepo.ListByEmail(ctx, v.Email)
	if err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}
	feedbacks, err := s.feedbackRepo.ListByEmail(ctx, v.Email)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return &domain.ParticipantHistory{
		Attendances: attendances,
		Feedbacks:   feedbacks,
	}, nil
}
