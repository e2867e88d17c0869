package domain

import (
	"context"
	"time"
)

// Attendance is a walk-in sign-in recorded against an activity. At most
// one attendance exists per (activity, email) pair.
// swagger:model Attendance
type Attendance struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Signature    string    `json:"signature,omitempty"` // data-URL image
	ActivityID   string    `json:"activity_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Populated by history lookups only.
	ActivityTitle string     `json:"activity_title,omitempty"`
	ActivityDate  *time.Time `json:"activity_date,omitempty"`
	ServiceName   string     `json:"activity_service_name,omitempty"`
}

// AttendanceRepository defines the interface for attendance storage.
// Create maps the (activity_id, email) unique violation to
// ErrDuplicateAttendance.
type AttendanceRepository interface {
	Create(ctx context.Context, a *Attendance) error
	ListByActivityID(ctx context.Context, activityID string) ([]*Attendance, error)
	ListByEmail(ctx context.Context, email string) ([]*Attendance, error)
}

// AttendanceSubmission is a public walk-in submission authorized by an
// activity access token.
type AttendanceSubmission struct {
	AccessToken  string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Organization string
	Signature    string
}

// AttendanceService defines attendance collection and consultation.
type AttendanceService interface {
	// Submit records a walk-in attendance. It fails with ErrNotFound for an
	// unknown token, ErrActivityClosed for a CLOSED activity,
	// ErrRegistrationRequired when the activity requires registration and
	// none exists for the email, and ErrDuplicateAttendance on resubmission.
	Submit(ctx context.Context, in AttendanceSubmission) (*Attendance, error)
	ListForActivity(ctx context.Context, v Viewer, activityID string) ([]*Attendance, error)
}
