package domain

import (
	"context"
	"time"
)

// User represents an account on the platform. PasswordHash is empty for
// invitation-pending accounts; EmailVerified is nil until the address has
// been confirmed (unverified users cannot authenticate).
// swagger:model User
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	ServiceID     string     `json:"service_id,omitempty"`
	ServiceName   string     `json:"service_name,omitempty"`
	EmailVerified *time.Time `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Populated by detail lookups only.
	CreatedActivityCount int `json:"created_activity_count,omitempty"`
	RegistrationCount    int `json:"registration_count,omitempty"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(name, email, passwordHash string, role Role, serviceID string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		ServiceID:    serviceID,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// UserFilter narrows user listings. Zero values mean "no constraint".
type UserFilter struct {
	Role      Role
	ServiceID string
	Search    string
}

// UserUpdate carries partial user edits; nil fields are unchanged.
type UserUpdate struct {
	Name      *string
	Email     *string
	Role      *Role
	ServiceID *string
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
	MarkEmailVerified(ctx context.Context, email string, verifiedAt time.Time) error
}

// PasswordHasher handles hashing and verification of user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed session tokens for an authenticated viewer.
type TokenIssuer interface {
	Issue(v Viewer, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the viewer it encodes.
type TokenVerifier interface {
	Verify(token string) (Viewer, error)
}

// AuthService defines authentication and account lifecycle operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	Register(ctx context.Context, name, email, password string) (*User, error)
	VerifyEmail(ctx context.Context, token string) error
}

// ParticipantHistory groups a participant's past attendances and feedbacks.
type ParticipantHistory struct {
	Attendances []*Attendance `json:"attendances"`
	Feedbacks   []*Feedback   `json:"feedbacks"`
}

// UserService defines admin-facing user management plus the viewer-scoped
// intervenant directory and participant history.
type UserService interface {
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
	ListIntervenants(ctx context.Context, v Viewer, serviceID string) ([]*User, error)
	History(ctx context.Context, v Viewer) (*ParticipantHistory, error)
}
