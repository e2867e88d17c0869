package domain

import (
	"context"
	"time"
)

// Registration links a participant to an activity that requires advance
// sign-up. At most one registration exists per (user, activity) pair.
// swagger:model Registration
type Registration struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ActivityID string    `json:"activity_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated by listings only.
	Activity *Activity `json:"activity,omitempty"`
}

// NewRegistration returns a new Registration. ID is set by the repository on create.
func NewRegistration(userID, activityID string, createdAt time.Time) *Registration {
	return &Registration{
		UserID:     userID,
		ActivityID: activityID,
		CreatedAt:  createdAt,
	}
}

// RegistrationRepository defines the interface for registration storage.
// Create maps the (user_id, activity_id) unique violation to
// ErrDuplicateRegistration.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByUserAndActivity(ctx context.Context, userID, activityID string) (*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationService defines the participant-facing registration workflow.
type RegistrationService interface {
	// Register fails with ErrNotFound for an unknown activity,
	// ErrRegistrationNotRequired when the activity takes walk-ins only,
	// ErrActivityNotOpen when the activity is not ACTIVE, and
	// ErrDuplicateRegistration on a second attempt.
	Register(ctx context.Context, v Viewer, activityID string) (*Registration, error)
	ListMine(ctx context.Context, v Viewer) ([]*Registration, error)
	// Cancel fails with ErrNotFound when the registration does not exist or
	// belongs to another participant.
	Cancel(ctx context.Context, v Viewer, id string) error
}
