package domain

import (
	"context"
	"time"
)

// Service is an organizational unit (e.g. Career Center) owning users and
// activities.
// swagger:model Service
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserCount     int `json:"user_count"`
	ActivityCount int `json:"activity_count"`

	// Populated by detail lookups only.
	Users []*User `json:"users,omitempty"`
}

// NewService returns a new Service. ID is set by the repository on create.
func NewService(name, slug, description string, createdAt, updatedAt time.Time) *Service {
	return &Service{
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ServiceUpdate carries partial service edits; nil fields are unchanged.
type ServiceUpdate struct {
	Name        *string
	Slug        *string
	Description *string
}

// ServiceRepository defines the interface for service storage
type ServiceRepository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
	Update(ctx context.Context, id string, upd ServiceUpdate) (*Service, error)
	// Delete fails with ErrServiceNotEmpty while the service owns users or
	// activities.
	Delete(ctx context.Context, id string) error
}

// ServiceService defines admin-only CRUD over services.
type ServiceService interface {
	List(ctx context.Context) ([]*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	Create(ctx context.Context, name, slug, description string) (*Service, error)
	Update(ctx context.Context, id string, upd ServiceUpdate) (*Service, error)
	Delete(ctx context.Context, id string) error
}
