package postgres

import (
	"context"
	"database/sql"
	"errors"

	"semecity/internal/domain"
)

type activityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{DB: db}
}

const activityColumns = `
	a.id, a.title, a.description, a.date, a.location, a.status,
	a.requires_registration, a.access_token, a.service_id, s.name,
	a.intervenant_id, a.created_by_id, cb.name, a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM attendances att WHERE att.activity_id = a.id),
	(SELECT COUNT(*) FROM feedbacks f WHERE f.activity_id = a.id)
`

const activityJoins = `
	FROM activities a
	INNER JOIN services s ON s.id = a.service_id
	INNER JOIN users cb ON cb.id = a.created_by_id
`

func scanActivity(row interface{ Scan(...any) error }) (*domain.Activity, error) {
	a := &domain.Activity{}
	var description, location, intervenantID, createdByName sql.NullString
	var status string
	err := row.Scan(
		&a.ID, &a.Title, &description, &a.Date, &location, &status,
		&a.RequiresRegistration, &a.AccessToken, &a.ServiceID, &a.ServiceName,
		&intervenantID, &a.CreatedByID, &createdByName, &a.CreatedAt, &a.UpdatedAt,
		&a.AttendanceCount, &a.FeedbackCount,
	)
	if err != nil {
		return nil, err
	}
	a.Description = description.String
	a.Location = location.String
	a.Status = domain.ActivityStatus(status)
	a.IntervenantID = intervenantID.String
	a.CreatedByName = createdByName.String
	return a, nil
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	query := `
		INSERT INTO activities (title, description, date, location, status, requires_registration,
			access_token, service_id, intervenant_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		a.Title, nullString(a.Description), a.Date, nullString(a.Location), string(a.Status),
		a.RequiresRegistration, a.AccessToken, a.ServiceID, nullString(a.IntervenantID),
		a.CreatedByID, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + activityJoins + ` WHERE a.id = $1`
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *activityRepository) GetByAccessToken(ctx context.Context, token string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + activityJoins + ` WHERE a.access_token = $1`
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *activityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	if filter.None {
		return []*domain.Activity{}, nil
	}
	query := `SELECT ` + activityColumns + activityJoins + ` WHERE 1=1`
	var args []any
	if filter.ServiceID != "" {
		args = append(args, filter.ServiceID)
		query += ` AND a.service_id = $` + itoa(len(args))
	}
	if filter.IntervenantID != "" {
		args = append(args, filter.IntervenantID)
		query += ` AND a.intervenant_id = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND a.status = $` + itoa(len(args))
	}
	query += ` ORDER BY a.date DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) Update(ctx context.Context, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	query := `
		UPDATE activities SET
			title = COALESCE($2, title),
			description = CASE WHEN $3 THEN NULLIF($4, '') ELSE description END,
			date = COALESCE($5, date),
			location = CASE WHEN $6 THEN NULLIF($7, '') ELSE location END,
			status = COALESCE($8, status),
			requires_registration = COALESCE($9, requires_registration),
			intervenant_id = CASE WHEN $10 THEN NULLIF($11, '') ELSE intervenant_id END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var title, status sql.NullString
	if upd.Title != nil {
		title = sql.NullString{String: *upd.Title, Valid: true}
	}
	if upd.Status != nil {
		status = sql.NullString{String: string(*upd.Status), Valid: true}
	}
	var date sql.NullTime
	if upd.Date != nil {
		date = sql.NullTime{Time: *upd.Date, Valid: true}
	}
	var requiresRegistration sql.NullBool
	if upd.RequiresRegistration != nil {
		requiresRegistration = sql.NullBool{Bool: *upd.RequiresRegistration, Valid: true}
	}
	setDescription, description := upd.Description != nil, ""
	if setDescription {
		description = *upd.Description
	}
	setLocation, location := upd.Location != nil, ""
	if setLocation {
		location = *upd.Location
	}
	setIntervenant, intervenantID := upd.IntervenantID != nil, ""
	if setIntervenant {
		intervenantID = *upd.IntervenantID
	}

	var updatedID string
	err := r.DB.QueryRowContext(ctx, query, id,
		title, setDescription, description, date, setLocation, location,
		status, requiresRegistration, setIntervenant, intervenantID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	// Attendances, feedbacks, and registrations go with it (ON DELETE CASCADE).
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
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
