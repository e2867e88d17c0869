package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"semecity/internal/domain"
)

type feedbackService struct {
	feedbackRepo domain.FeedbackRepository
	activityRepo domain.ActivityRepository
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(feedbackRepo domain.FeedbackRepository, activityRepo domain.ActivityRepository) domain.FeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo, activityRepo: activityRepo}
}

func (s *feedbackService) Submit(ctx context.Context, in domain.FeedbackSubmission) (*domain.Feedback, error) {
	activity, err := s.activityRepo.GetByAccessToken(ctx, in.AccessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity by token: %w", err)
	}
	if activity.Status == domain.ActivityClosed {
		return nil, domain.ErrActivityClosed
	}

	for _, rating := range []int{in.OverallRating, in.ContentRating, in.OrganizationRating} {
		if rating < 1 || rating > 5 {
			return nil, fmt.Errorf("rating %d out of range", rating)
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.ParticipantEmail))
	if email != "" && !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email %q", in.ParticipantEmail)
	}

	f := &domain.Feedback{
		OverallRating:      in.OverallRating,
		ContentRating:      in.ContentRating,
		OrganizationRating: in.OrganizationRating,
		Comment:            strings.TrimSpace(in.Comment),
		Suggestions:        strings.TrimSpace(in.Suggestions),
		WouldRecommend:     in.WouldRecommend,
		ParticipantName:    strings.TrimSpace(in.ParticipantName),
		ParticipantEmail:   email,
		ActivityID:         activity.ID,
		CreatedAt:          time.Now(),
	}
	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

func (s *feedbackService) ListForActivity(ctx context.Context, v domain.Viewer, activityID string) ([]*domain.Feedback, *domain.FeedbackStats, error) {
	if v.Role == domain.RoleParticipant {
		return nil, nil, domain.ErrForbidden
	}
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get activity: %w", err)
	}
	if !v.CanSeeActivity(activity) {
		return nil, nil, domain.ErrNotFound
	}
	feedbacks, err := s.feedbackRepo.ListByActivityID(ctx, activity.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list feedbacks: %w", err)
	}
	stats, err := s.feedbackRepo.StatsByActivityID(ctx, activity.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("feedback stats: %w", err)
	}
	return feedbacks, stats, nil
}
