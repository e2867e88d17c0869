package postgres

import (
	"context"
	"database/sql"
	"math"

	"semecity/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{DB: db}
}

func (r *feedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedbacks (overall_rating, content_rating, organization_rating, comment, suggestions,
			would_recommend, participant_name, participant_email, activity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		f.OverallRating, f.ContentRating, f.OrganizationRating, nullString(f.Comment), nullString(f.Suggestions),
		f.WouldRecommend, nullString(f.ParticipantName), nullString(f.ParticipantEmail), f.ActivityID, f.CreatedAt,
	).Scan(&f.ID)
}

func (r *feedbackRepository) ListByActivityID(ctx context.Context, activityID string) ([]*domain.Feedback, error) {
	query := `
		SELECT id, overall_rating, content_rating, organization_rating, comment, suggestions,
			would_recommend, participant_name, participant_email, activity_id, created_at
		FROM feedbacks
		WHERE activity_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := []*domain.Feedback{}
	for rows.Next() {
		f := &domain.Feedback{}
		var comment, suggestions, participantName, participantEmail sql.NullString
		if err := rows.Scan(&f.ID, &f.OverallRating, &f.ContentRating, &f.OrganizationRating, &comment, &suggestions, &f.WouldRecommend, &participantName, &participantEmail, &f.ActivityID, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Comment = comment.String
		f.Suggestions = suggestions.String
		f.ParticipantName = participantName.String
		f.ParticipantEmail = participantEmail.String
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}

func (r *feedbackRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Feedback, error) {
	query := `
		SELECT f.id, f.overall_rating, f.content_rating, f.organization_rating, f.comment, f.suggestions,
			f.would_recommend, f.participant_name, f.participant_email, f.activity_id, f.created_at,
			a.title, a.date, s.name
		FROM feedbacks f
		INNER JOIN activities a ON a.id = f.activity_id
		INNER JOIN services s ON s.id = a.service_id
		WHERE f.participant_email = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := []*domain.Feedback{}
	for rows.Next() {
		f := &domain.Feedback{}
		var comment, suggestions, participantName, participantEmail sql.NullString
		var activityDate sql.NullTime
		if err := rows.Scan(&f.ID, &f.OverallRating, &f.ContentRating, &f.OrganizationRating, &comment, &suggestions, &f.WouldRecommend, &participantName, &participantEmail, &f.ActivityID, &f.CreatedAt, &f.ActivityTitle, &activityDate, &f.ServiceName); err != nil {
			return nil, err
		}
		f.Comment = comment.String
		f.Suggestions = suggestions.String
		f.ParticipantName = participantName.String
		f.ParticipantEmail = participantEmail.String
		if activityDate.Valid {
			t := activityDate.Time
			f.ActivityDate = &t
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}

func (r *feedbackRepository) StatsByActivityID(ctx context.Context, activityID string) (*domain.FeedbackStats, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(AVG(overall_rating), 0),
			COALESCE(AVG(content_rating), 0),
			COALESCE(AVG(organization_rating), 0),
			COUNT(*) FILTER (WHERE would_recommend)
		FROM feedbacks
		WHERE activity_id = $1
	`
	stats := &domain.FeedbackStats{}
	var recommendCount int
	err := r.DB.QueryRowContext(ctx, query, activityID).Scan(
		&stats.Count, &stats.AvgOverall, &stats.AvgContent, &stats.AvgOrganization, &recommendCount,
	)
	if err != nil {
		return nil, err
	}
	if stats.Count > 0 {
		stats.RecommendPercent = int(math.Round(float64(recommendCount) / float64(stats.Count) * 100))
	}
	return stats, nil
}
