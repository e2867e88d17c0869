package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"semecity/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_Create(t *testing.T) {
	ctx := context.Background()

	newAttendance := func() *domain.Attendance {
		return &domain.Attendance{
			FirstName:  "Awa",
			LastName:   "Koné",
			Email:      "awa@semecity.bj",
			ActivityID: "activity-uuid-1",
			CreatedAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success assigns id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendances`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("attendance-uuid-1"))
			},
		},
		{
			name: "unique violation returns ErrDuplicateAttendance",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendances`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateAttendance,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendances`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendanceRepository(db)
			a := newAttendance()
			err = repo.Create(ctx, a)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "attendance-uuid-1", a.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_ListByActivityID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cols := []string{"id", "first_name", "last_name", "email", "phone", "organization", "signature", "activity_id", "created_at"}

	t.Run("rows with null optionals", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM attendances`).
			WithArgs("activity-uuid-1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("at-1", "Awa", "Koné", "awa@semecity.bj", "+22997000000", "Sèmè City", nil, "activity-uuid-1", now).
				AddRow("at-2", "Bio", "Soulé", "bio@semecity.bj", nil, nil, nil, "activity-uuid-1", now))

		repo := NewAttendanceRepository(db)
		list, err := repo.ListByActivityID(ctx, "activity-uuid-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "+22997000000", list[0].Phone)
		require.Empty(t, list[1].Phone)
		require.Empty(t, list[1].Organization)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM attendances`).
			WithArgs("activity-uuid-2").
			WillReturnRows(sqlmock.NewRows(cols))

		repo := NewAttendanceRepository(db)
		list, err := repo.ListByActivityID(ctx, "activity-uuid-2")
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendanceRepository_ListByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cols := []string{"id", "first_name", "last_name", "email", "phone", "organization", "activity_id", "created_at", "title", "date", "name"}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	activityDate := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM attendances att`).
		WithArgs("awa@semecity.bj").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("at-1", "Awa", "Koné", "awa@semecity.bj", nil, nil, "activity-uuid-1", now, "Hackathon", activityDate, "Career Center"))

	repo := NewAttendanceRepository(db)
	list, err := repo.ListByEmail(ctx, "awa@semecity.bj")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Hackathon", list[0].ActivityTitle)
	require.Equal(t, "Career Center", list[0].ServiceName)
	require.NotNil(t, list[0].ActivityDate)
	require.NoError(t, mock.ExpectationsWereMet())
}
