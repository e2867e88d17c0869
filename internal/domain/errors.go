package domain

import "errors"

// Generic sentinel errors. Repositories and services return these so the
// delivery layer can map them to HTTP statuses without string matching.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
)

// Uniqueness conflicts (mapped from Postgres unique violations).
var (
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrDuplicateAttendance   = errors.New("attendance already recorded for this email")
	ErrDuplicateRegistration = errors.New("already registered for this activity")
	ErrDuplicateService      = errors.New("a service with this name or slug already exists")
	ErrInvitationPending     = errors.New("an invitation is already pending for this email")
)

// Business-rule violations.
var (
	ErrActivityClosed          = errors.New("activity is closed")
	ErrActivityNotOpen         = errors.New("activity is not open for registration")
	ErrRegistrationRequired    = errors.New("activity requires a prior registration for this email")
	ErrRegistrationNotRequired = errors.New("activity does not require registration")
	ErrServiceRequired         = errors.New("a service must be specified")
	ErrServiceNotEmpty         = errors.New("service still owns users or activities")
	ErrInvitationAccepted      = errors.New("invitation already accepted")
	ErrInvitationExpired       = errors.New("invitation expired")
	ErrTokenInvalid            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")
)
