package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"semecity/internal/domain"
)

type attendanceService struct {
	attendanceRepo   domain.AttendanceRepository
	activityRepo     domain.ActivityRepository
	userRepo         domain.UserRepository
	registrationRepo domain.RegistrationRepository
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(
	attendanceRepo domain.AttendanceRepository,
	activityRepo domain.ActivityRepository,
	userRepo domain.UserRepository,
	registrationRepo domain.RegistrationRepository,
) domain.AttendanceService {
	return &attendanceService{
		attendanceRepo:   attendanceRepo,
		activityRepo:     activityRepo,
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *attendanceService) Submit(ctx context.Context, in domain.AttendanceSubmission) (*domain.Attendance, error) {
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

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email %q", in.Email)
	}

	if activity.RequiresRegistration {
		if err := s.checkRegistered(ctx, email, activity.ID); err != nil {
			return nil, err
		}
	}

	a := &domain.Attendance{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Organization: strings.TrimSpace(in.Organization),
		Signature:    in.Signature,
		ActivityID:   activity.ID,
		CreatedAt:    time.Now(),
	}
	if err := s.attendanceRepo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			return nil, domain.ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	return a, nil
}

// checkRegistered maps "no account" and "no registration" to the same
// error so the public form shows a single message.
func (s *attendanceService) checkRegistered(ctx context.Context, email, activityID string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRegistrationRequired
		}
		return fmt.Errorf("get user: %w", err)
	}
	_, err = s.registrationRepo.GetByUserAndActivity(ctx, user.ID, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRegistrationRequired
		}
		return fmt.Errorf("get registration: %w", err)
	}
	return nil
}

func (s *attendanceService) ListForActivity(ctx context.Context, v domain.Viewer, activityID string) ([]*domain.Attendance, error) {
	if v.Role == domain.RoleParticipant {
		return nil, domain.ErrForbidden
	}
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if !v.CanSeeActivity(activity) {
		return nil, domain.ErrNotFound
	}
	attendances, err := s.attendanceRepo.ListByActivityID(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}
	return attendances, nil
}
