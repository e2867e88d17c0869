package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"semecity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportFixture() (domain.ExportService, *fakeActivityRepo, *fakeAttendanceRepo, *fakeFeedbackRepo) {
	activities := newFakeActivityRepo()
	attendances := newFakeAttendanceRepo()
	feedbacks := newFakeFeedbackRepo()
	svc := NewExportService(activities, attendances, feedbacks)
	return svc, activities, attendances, feedbacks
}

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportService_ExportCSV_Attendances(t *testing.T) {
	ctx := context.Background()
	admin := domain.Viewer{ID: "adm", Role: domain.RoleAdmin}

	svc, activities, attendances, _ := newExportFixture()
	activities.add(&domain.Activity{ID: "a1", Title: "Atelier CV / LinkedIn", ServiceID: "svc-1"})
	attendances.byActivity["a1"] = []*domain.Attendance{
		{
			FirstName:    "Awa",
			LastName:     "Koné",
			Email:        "awa@semecity.bj",
			Phone:        "+229 97 00 00 00",
			Organization: "Sèmè City, Cotonou",
			CreatedAt:    time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		},
	}

	export, err := svc.ExportCSV(ctx, admin, "a1", domain.ExportAttendances)
	require.NoError(t, err)
	assert.Equal(t, "presences-Atelier-CV-LinkedIn.csv", export.Filename)

	records := parseCSV(t, export.Content)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Prénom", "Nom", "Email", "Téléphone", "Organisation", "Date"}, records[0])
	assert.Equal(t, []string{"Awa", "Koné", "awa@semecity.bj", "+229 97 00 00 00", "Sèmè City, Cotonou", "14/03/2026"}, records[1])
}

func TestExportService_ExportCSV_Feedbacks(t *testing.T) {
	ctx := context.Background()
	admin := domain.Viewer{ID: "adm", Role: domain.RoleAdmin}

	svc, activities, _, feedbacks := newExportFixture()
	activities.add(&domain.Activity{ID: "a1", Title: "Hackathon", ServiceID: "svc-1"})
	feedbacks.byActivity["a1"] = []*domain.Feedback{
		{
			ParticipantName:    "Awa",
			ParticipantEmail:   "awa@semecity.bj",
			OverallRating:      5,
			ContentRating:      4,
			OrganizationRating: 3,
			WouldRecommend:     true,
			Comment:            `Très bien, "vraiment"`,
			CreatedAt:          time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			OverallRating:      2,
			ContentRating:      2,
			OrganizationRating: 2,
			WouldRecommend:     false,
			CreatedAt:          time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	export, err := svc.ExportCSV(ctx, admin, "a1", domain.ExportFeedbacks)
	require.NoError(t, err)
	assert.Equal(t, "feedbacks-Hackathon.csv", export.Filename)

	records := parseCSV(t, export.Content)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Nom", "Email", "Note globale", "Note contenu", "Note organisation", "Recommande", "Commentaire", "Suggestions", "Date"}, records[0])
	assert.Equal(t, []string{"Awa", "awa@semecity.bj", "5", "4", "3", "Oui", `Très bien, "vraiment"`, "", "14/03/2026"}, records[1])
	assert.Equal(t, "Non", records[2][5])
}

func TestExportService_ExportCSV_Access(t *testing.T) {
	ctx := context.Background()
	svc, activities, _, _ := newExportFixture()
	activities.add(&domain.Activity{ID: "a1", Title: "Hackathon", ServiceID: "svc-1"})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.ExportCSV(ctx, domain.Viewer{ID: "adm", Role: domain.RoleAdmin}, "a1", domain.ExportKind("pdf"))
		require.Error(t, err)
	})

	t.Run("participant forbidden", func(t *testing.T) {
		_, err := svc.ExportCSV(ctx, domain.Viewer{ID: "p1", Role: domain.RoleParticipant}, "a1", domain.ExportAttendances)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cross-service answers not found", func(t *testing.T) {
		v := domain.Viewer{ID: "rsp", Role: domain.RoleResponsableService, ServiceID: "svc-2"}
		_, err := svc.ExportCSV(ctx, v, "a1", domain.ExportAttendances)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown activity", func(t *testing.T) {
		_, err := svc.ExportCSV(ctx, domain.Viewer{ID: "adm", Role: domain.RoleAdmin}, "missing", domain.ExportAttendances)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank title falls back", func(t *testing.T) {
		activities.add(&domain.Activity{ID: "a2", Title: "  ", ServiceID: "svc-1"})
		export, err := svc.ExportCSV(ctx, domain.Viewer{ID: "adm", Role: domain.RoleAdmin}, "a2", domain.ExportAttendances)
		require.NoError(t, err)
		assert.Equal(t, "presences-activite.csv", export.Filename)
	})
}
