package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"semecity/internal/domain"
)

const accessTokenBytes = 16

type activityService struct {
	activityRepo domain.ActivityRepository
}

// NewActivityService creates an ActivityService with the given repository.
func NewActivityService(activityRepo domain.ActivityRepository) domain.ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) List(ctx context.Context, v domain.Viewer) ([]*domain.Activity, error) {
	activities, err := s.activityRepo.List(ctx, v.ActivityScope())
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// GetByID answers "not found" for rows outside the viewer's scope so
// existence is never disclosed across services.
func (s *activityService) GetByID(ctx context.Context, v domain.Viewer, id string) (*domain.Activity, error) {
	a, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if !v.CanSeeActivity(a) {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (s *activityService) GetPublic(ctx context.Context, accessToken string) (*domain.Activity, error) {
	a, err := s.activityRepo.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity by token: %w", err)
	}
	return a, nil
}

func (s *activityService) Create(ctx context.Context, v domain.Viewer, in domain.ActivityCreate) (*domain.Activity, error) {
	serviceID := in.ServiceID
	if v.Role == domain.RoleAdmin {
		// Admins belong to no service and must name one explicitly.
		if serviceID == "" {
			return nil, domain.ErrServiceRequired
		}
	} else {
		if serviceID == "" {
			serviceID = v.ServiceID
		}
	}
	if !v.CanManageActivity(serviceID) {
		return nil, domain.ErrForbidden
	}

	accessToken, err := generateToken(accessTokenBytes)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.ActivityActive
	}

	now := time.Now()
	a := domain.NewActivity(in.Title, in.Description, in.Date, in.Location, status,
		in.RequiresRegistration, accessToken, serviceID, in.IntervenantID, v.ID, now, now)
	if err := s.activityRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *activityService) Update(ctx context.Context, v domain.Viewer, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	existing, err := s.GetByID(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if !v.CanManageActivity(existing.ServiceID) {
		return nil, domain.ErrForbidden
	}
	a, err := s.activityRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return a, nil
}

func (s *activityService) Delete(ctx context.Context, v domain.Viewer, id string) error {
	existing, err := s.GetByID(ctx, v, id)
	if err != nil {
		return err
	}
	if !v.CanManageActivity(existing.ServiceID) {
		return domain.ErrForbidden
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}
