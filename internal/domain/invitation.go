package domain

import (
	"context"
	"time"
)

// Invitation is a token-based offer to join the platform with a given role.
// An invitation is pending until accepted or until ExpiresAt passes;
// expiry is computed, never stored.
// swagger:model Invitation
type Invitation struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	ServiceID   string     `json:"service_id,omitempty"`
	ServiceName string     `json:"service_name,omitempty"`
	Token       string     `json:"token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	SenderID    string     `json:"sender_id"`
	SenderName  string     `json:"sender_name,omitempty"`
	ReceiverID  string     `json:"receiver_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Accepted reports whether the invitation has been accepted.
func (i *Invitation) Accepted() bool { return i.AcceptedAt != nil }

// Expired reports whether the invitation had expired at the given instant.
func (i *Invitation) Expired(now time.Time) bool { return i.ExpiresAt.Before(now) }

// InvitationRepository defines the interface for invitation storage.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// HasPending reports whether a non-expired, non-accepted invitation
	// exists for the email.
	HasPending(ctx context.Context, email string, now time.Time) (bool, error)
	List(ctx context.Context, serviceID string) ([]*Invitation, error)
	// Accept creates the user and marks the invitation accepted with the
	// new user as receiver, as a single transaction. A duplicate user email
	// maps to ErrDuplicateEmail and leaves the invitation untouched.
	Accept(ctx context.Context, invitationID string, user *User, acceptedAt time.Time) error
}

// InvitationInfo is the public view of an invitation shown on the accept
// page before an account exists.
type InvitationInfo struct {
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	ServiceName string `json:"service_name,omitempty"`
	InviterName string `json:"inviter_name"`
	Expired     bool   `json:"expired"`
	Accepted    bool   `json:"accepted"`
}

// InvitationService defines the invitation workflow.
type InvitationService interface {
	List(ctx context.Context, v Viewer) ([]*Invitation, error)
	// Create enforces the invitation policy (Viewer.CanInvite), rejects
	// emails that already belong to a user (ErrDuplicateEmail) or have a
	// live invitation (ErrInvitationPending), and sends the invitation
	// email best-effort.
	Create(ctx context.Context, v Viewer, email string, role Role, serviceID string) (*Invitation, error)
	GetInfo(ctx context.Context, token string) (*InvitationInfo, error)
	// Accept atomically creates the invited user (auto-verified) and marks
	// the invitation accepted. Fails with ErrNotFound, ErrInvitationAccepted,
	// or ErrInvitationExpired; on failure no user row exists.
	Accept(ctx context.Context, token, name, password string) (*User, error)
}
