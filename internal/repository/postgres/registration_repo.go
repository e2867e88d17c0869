package postgres

import (
	"context"
	"database/sql"
	"errors"

	"semecity/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (user_id, activity_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.UserID, reg.ActivityID, reg.CreatedAt).Scan(&reg.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateRegistration
	}
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, activity_id, created_at
		FROM registrations
		WHERE id = $1
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&reg.ID, &reg.UserID, &reg.ActivityID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByUserAndActivity(ctx context.Context, userID, activityID string) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, activity_id, created_at
		FROM registrations
		WHERE user_id = $1 AND activity_id = $2
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, activityID).Scan(&reg.ID, &reg.UserID, &reg.ActivityID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT reg.id, reg.user_id, reg.activity_id, reg.created_at,
			a.id, a.title, a.date, a.location, a.status, s.name
		FROM registrations reg
		INNER JOIN activities a ON a.id = reg.activity_id
		INNER JOIN services s ON s.id = a.service_id
		WHERE reg.user_id = $1
		ORDER BY reg.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []*domain.Registration{}
	for rows.Next() {
		reg := &domain.Registration{Activity: &domain.Activity{}}
		var location sql.NullString
		var status string
		if err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.ActivityID, &reg.CreatedAt,
			&reg.Activity.ID, &reg.Activity.Title, &reg.Activity.Date, &location, &status, &reg.Activity.ServiceName,
		); err != nil {
			return nil, err
		}
		reg.Activity.Location = location.String
		reg.Activity.Status = domain.ActivityStatus(status)
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
