package domain

import (
	"context"
	"time"
)

// ActivityStatus is the lifecycle state of an activity. Any authorized
// actor may set any status; no transition order is enforced.
type ActivityStatus string

const (
	ActivityDraft  ActivityStatus = "DRAFT"
	ActivityActive ActivityStatus = "ACTIVE"
	ActivityClosed ActivityStatus = "CLOSED"
)

// Valid reports whether s is one of the defined statuses.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityDraft, ActivityActive, ActivityClosed:
		return true
	}
	return false
}

// Activity is a schedulable event collecting attendance and feedback.
// AccessToken is an unguessable capability string granting unauthenticated
// write access through the public links.
// swagger:model Activity
type Activity struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description,omitempty"`
	Date                 time.Time      `json:"date"`
	Location             string         `json:"location,omitempty"`
	Status               ActivityStatus `json:"status"`
	RequiresRegistration bool           `json:"requires_registration"`
	AccessToken          string         `json:"access_token"`
	ServiceID            string         `json:"service_id"`
	ServiceName          string         `json:"service_name,omitempty"`
	IntervenantID        string         `json:"intervenant_id,omitempty"`
	CreatedByID          string         `json:"created_by_id"`
	CreatedByName        string         `json:"created_by_name,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	AttendanceCount int `json:"attendance_count"`
	FeedbackCount   int `json:"feedback_count"`
}

// NewActivity returns a new Activity. ID is set by the repository on create.
func NewActivity(title, description string, date time.Time, location string, status ActivityStatus, requiresRegistration bool, accessToken, serviceID, intervenantID, createdByID string, createdAt, updatedAt time.Time) *Activity {
	return &Activity{
		Title:                title,
		Description:          description,
		Date:                 date,
		Location:             location,
		Status:               status,
		RequiresRegistration: requiresRegistration,
		AccessToken:          accessToken,
		ServiceID:            serviceID,
		IntervenantID:        intervenantID,
		CreatedByID:          createdByID,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}
}

// ActivityFilter is the row-level visibility filter computed from a
// Viewer's role (see Viewer.ActivityScope). Zero values mean "no
// constraint". None forces an empty result; it is the scope of a viewer
// whose role needs a service affiliation they do not have.
type ActivityFilter struct {
	None          bool
	ServiceID     string
	IntervenantID string
	Status        ActivityStatus
}

// ActivityUpdate carries partial activity edits; nil fields are unchanged.
type ActivityUpdate struct {
	Title                *string
	Description          *string
	Date                 *time.Time
	Location             *string
	Status               *ActivityStatus
	RequiresRegistration *bool
	IntervenantID        *string
}

// ActivityRepository defines the interface for activity storage. Deleting
// an activity cascades to its attendances, feedbacks, and registrations
// (enforced by the schema).
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	GetByAccessToken(ctx context.Context, token string) (*Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	Update(ctx context.Context, id string, upd ActivityUpdate) (*Activity, error)
	Delete(ctx context.Context, id string) error
}

// ActivityCreate carries the fields accepted on activity creation.
type ActivityCreate struct {
	Title                string
	Description          string
	Date                 time.Time
	Location             string
	Status               ActivityStatus
	RequiresRegistration bool
	ServiceID            string
	IntervenantID        string
}

// ActivityService defines role-scoped activity lifecycle operations.
// Lookups outside the viewer's scope fail with ErrNotFound; mutation
// attempts by roles without management rights fail with ErrForbidden.
type ActivityService interface {
	List(ctx context.Context, v Viewer) ([]*Activity, error)
	GetByID(ctx context.Context, v Viewer, id string) (*Activity, error)
	GetPublic(ctx context.Context, accessToken string) (*Activity, error)
	Create(ctx context.Context, v Viewer, in ActivityCreate) (*Activity, error)
	Update(ctx context.Context, v Viewer, id string, upd ActivityUpdate) (*Activity, error)
	Delete(ctx context.Context, v Viewer, id string) error
}
