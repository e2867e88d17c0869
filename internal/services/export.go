package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"semecity/internal/domain"
)

const exportDateLayout = "02/01/2006"

var filenameSeparators = regexp.MustCompile(`[\s/\\]+`)

type exportService struct {
	activityRepo   domain.ActivityRepository
	attendanceRepo domain.AttendanceRepository
	feedbackRepo   domain.FeedbackRepository
}

// NewExportService creates an ExportService.
func NewExportService(
	activityRepo domain.ActivityRepository,
	attendanceRepo domain.AttendanceRepository,
	feedbackRepo domain.FeedbackRepository,
) domain.ExportService {
	return &exportService{
		activityRepo:   activityRepo,
		attendanceRepo: attendanceRepo,
		feedbackRepo:   feedbackRepo,
	}
}

func (s *exportService) ExportCSV(ctx context.Context, v domain.Viewer, activityID string, kind domain.ExportKind) (*domain.Export, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
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

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var prefix string
	switch kind {
	case domain.ExportAttendances:
		prefix = "presences"
		err = s.writeAttendances(ctx, w, activity.ID)
	case domain.ExportFeedbacks:
		prefix = "feedbacks"
		err = s.writeFeedbacks(ctx, w, activity.ID)
	}
	if err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return &domain.Export{
		Filename: prefix + "-" + exportFilename(activity.Title) + ".csv",
		Content:  buf.Bytes(),
	}, nil
}

func (s *exportService) writeAttendances(ctx context.Context, w *csv.Writer, activityID string) error {
	attendances, err := s.attendanceRepo.ListByActivityID(ctx, activityID)
	if err != nil {
		return fmt.Errorf("list attendances: %w", err)
	}
	if err := w.Write([]string{"Prénom", "Nom", "Email", "Téléphone", "Organisation", "Date"}); err != nil {
		return err
	}
	for _, a := range attendances {
		row := []string{
			a.FirstName,
			a.LastName,
			a.Email,
			a.Phone,
			a.Organization,
			a.CreatedAt.Format(exportDateLayout),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) writeFeedbacks(ctx context.Context, w *csv.Writer, activityID string) error {
	feedbacks, err := s.feedbackRepo.ListByActivityID(ctx, activityID)
	if err != nil {
		return fmt.Errorf("list feedbacks: %w", err)
	}
	header := []string{"Nom", "Email", "Note globale", "Note contenu", "Note organisation", "Recommande", "Commentaire", "Suggestions", "Date"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range feedbacks {
		recommend := "Non"
		if f.WouldRecommend {
			recommend = "Oui"
		}
		row := []string{
			f.ParticipantName,
			f.ParticipantEmail,
			strconv.Itoa(f.OverallRating),
			strconv.Itoa(f.ContentRating),
			strconv.Itoa(f.OrganizationRating),
			recommend,
			f.Comment,
			f.Suggestions,
			f.CreatedAt.Format(exportDateLayout),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// exportFilename turns an activity title into a download-safe slug.
func exportFilename(title string) string {
	name := filenameSeparators.ReplaceAllString(strings.TrimSpace(title), "-")
	if name == "" {
		name = "activite"
	}
	return name
}
