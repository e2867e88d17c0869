package postgres

import (
	"context"
	"database/sql"

	"semecity/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	query := `
		INSERT INTO attendances (first_name, last_name, email, phone, organization, signature, activity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.Email, nullString(a.Phone), nullString(a.Organization),
		nullString(a.Signature), a.ActivityID, a.CreatedAt,
	).Scan(&a.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAttendance
	}
	return err
}

func (r *attendanceRepository) ListByActivityID(ctx context.Context, activityID string) ([]*domain.Attendance, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, organization, signature, activity_id, created_at
		FROM attendances
		WHERE activity_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendances := []*domain.Attendance{}
	for rows.Next() {
		a := &domain.Attendance{}
		var phone, organization, signature sql.NullString
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &phone, &organization, &signature, &a.ActivityID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Phone = phone.String
		a.Organization = organization.String
		a.Signature = signature.String
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

func (r *attendanceRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Attendance, error) {
	query := `
		SELECT att.id, att.first_name, att.last_name, att.email, att.phone, att.organization,
			att.activity_id, att.created_at, a.title, a.date, s.name
		FROM attendances att
		INNER JOIN activities a ON a.id = att.activity_id
		INNER JOIN services s ON s.id = a.service_id
		WHERE att.email = $1
		ORDER BY att.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendances := []*domain.Attendance{}
	for rows.Next() {
		a := &domain.Attendance{}
		var phone, organization sql.NullString
		var activityDate sql.NullTime
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &phone, &organization, &a.ActivityID, &a.CreatedAt, &a.ActivityTitle, &activityDate, &a.ServiceName); err != nil {
			return nil, err
		}
		a.Phone = phone.String
		a.Organization = organization.String
		if activityDate.Valid {
			t := activityDate.Time
			a.ActivityDate = &t
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}
