package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"semecity/internal/domain"
)

var slugRegexp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type serviceService struct {
	serviceRepo domain.ServiceRepository
}

// NewServiceService creates a ServiceService. Role checks live in the
// delivery layer; every operation here is admin-only.
func NewServiceService(serviceRepo domain.ServiceRepository) domain.ServiceService {
	return &serviceService{serviceRepo: serviceRepo}
}

func (s *serviceService) List(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *serviceService) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *serviceService) Create(ctx context.Context, name, slug, description string) (*domain.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugRegexp.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q", slug)
	}

	now := time.Now()
	svc := domain.NewService(name, slug, strings.TrimSpace(description), now, now)
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		if errors.Is(err, domain.ErrDuplicateService) {
			return nil, domain.ErrDuplicateService
		}
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *serviceService) Update(ctx context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error) {
	if upd.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*upd.Slug))
		if !slugRegexp.MatchString(slug) {
			return nil, fmt.Errorf("invalid slug %q", slug)
		}
		upd.Slug = &slug
	}
	svc, err := s.serviceRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateService) {
			return nil, err
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

func (s *serviceService) Delete(ctx context.Context, id string) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrServiceNotEmpty) {
			return err
		}
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
