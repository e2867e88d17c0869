package domain

import (
	"context"
	"time"
)

// VerificationToken grants exactly one email verification. It is deleted
// when consumed, and deleted on expiry detection.
type VerificationToken struct {
	Identifier string    `json:"identifier"` // the email being verified
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// VerificationTokenRepository defines the interface for verification token
// storage.
type VerificationTokenRepository interface {
	Create(ctx context.Context, identifier, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*VerificationToken, error)
	Delete(ctx context.Context, token string) error
}
