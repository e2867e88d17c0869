package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"semecity/internal/domain"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	activityRepo     domain.ActivityRepository
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(registrationRepo domain.RegistrationRepository, activityRepo domain.ActivityRepository) domain.RegistrationService {
	return &registrationService{registrationRepo: registrationRepo, activityRepo: activityRepo}
}

func (s *registrationService) Register(ctx context.Context, v domain.Viewer, activityID string) (*domain.Registration, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if !activity.RequiresRegistration {
		return nil, domain.ErrRegistrationNotRequired
	}
	if activity.Status != domain.ActivityActive {
		return nil, domain.ErrActivityNotOpen
	}

	reg := domain.NewRegistration(v.ID, activity.ID, time.Now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListMine(ctx context.Context, v domain.Viewer) ([]*domain.Registration, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// Cancel answers "not found" for another participant's registration so
// row existence is never disclosed.
func (s *registrationService) Cancel(ctx context.Context, v domain.Viewer, id string) error {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.UserID != v.ID {
		return domain.ErrNotFound
	}
	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
