package domain

import (
	"context"
	"time"
)

// Feedback is an anonymous rating submitted against an activity. Unlike
// attendance there is no uniqueness constraint; a participant may submit
// several feedbacks.
// swagger:model Feedback
type Feedback struct {
	ID                 string    `json:"id"`
	OverallRating      int       `json:"overall_rating"`
	ContentRating      int       `json:"content_rating"`
	OrganizationRating int       `json:"organization_rating"`
	Comment            string    `json:"comment,omitempty"`
	Suggestions        string    `json:"suggestions,omitempty"`
	WouldRecommend     bool      `json:"would_recommend"`
	ParticipantName    string    `json:"participant_name,omitempty"`
	ParticipantEmail   string    `json:"participant_email,omitempty"`
	ActivityID         string    `json:"activity_id"`
	CreatedAt          time.Time `json:"created_at"`

	// Populated by history lookups only.
	ActivityTitle string     `json:"activity_title,omitempty"`
	ActivityDate  *time.Time `json:"activity_date,omitempty"`
	ServiceName   string     `json:"activity_service_name,omitempty"`
}

// FeedbackStats aggregates ratings for an activity.
type FeedbackStats struct {
	Count            int     `json:"count"`
	AvgOverall       float64 `json:"avg_overall"`
	AvgContent       float64 `json:"avg_content"`
	AvgOrganization  float64 `json:"avg_organization"`
	RecommendPercent int     `json:"recommend_percent"`
}

// FeedbackRepository defines the interface for feedback storage.
type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) error
	ListByActivityID(ctx context.Context, activityID string) ([]*Feedback, error)
	ListByEmail(ctx context.Context, email string) ([]*Feedback, error)
	StatsByActivityID(ctx context.Context, activityID string) (*FeedbackStats, error)
}

// FeedbackSubmission is a public feedback submission authorized by an
// activity access token.
type FeedbackSubmission struct {
	AccessToken        string
	OverallRating      int
	ContentRating      int
	OrganizationRating int
	Comment            string
	Suggestions        string
	WouldRecommend     bool
	ParticipantName    string
	ParticipantEmail   string
}

// FeedbackService defines feedback collection and consultation.
type FeedbackService interface {
	// Submit fails with ErrNotFound for an unknown token and
	// ErrActivityClosed for a CLOSED activity.
	Submit(ctx context.Context, in FeedbackSubmission) (*Feedback, error)
	ListForActivity(ctx context.Context, v Viewer, activityID string) ([]*Feedback, *FeedbackStats, error)
}
