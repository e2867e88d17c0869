package postgres

import (
	"context"
	"database/sql"
	"errors"

	"semecity/internal/domain"
)

type serviceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(db *sql.DB) domain.ServiceRepository {
	return &serviceRepository{DB: db}
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	query := `
		INSERT INTO services (name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		svc.Name, svc.Slug, nullString(svc.Description), svc.CreatedAt, svc.UpdatedAt,
	).Scan(&svc.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateService
	}
	return err
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query := `
		SELECT s.id, s.name, s.slug, s.description, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM users u WHERE u.service_id = s.id),
			(SELECT COUNT(*) FROM activities a WHERE a.service_id = s.id)
		FROM services s
		WHERE s.id = $1
	`
	svc := &domain.Service{}
	var description sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&svc.ID, &svc.Name, &svc.Slug, &description, &svc.CreatedAt, &svc.UpdatedAt,
		&svc.UserCount, &svc.ActivityCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	svc.Description = description.String

	// Member users, for the admin service detail page.
	userRows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, role
		FROM users
		WHERE service_id = $1
		ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer userRows.Close()
	svc.Users = []*domain.User{}
	for userRows.Next() {
		u := &domain.User{}
		var role string
		if err := userRows.Scan(&u.ID, &u.Name, &u.Email, &role); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)
		svc.Users = append(svc.Users, u)
	}
	return svc, userRows.Err()
}

func (r *serviceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	query := `
		SELECT s.id, s.name, s.slug, s.description, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM users u WHERE u.service_id = s.id),
			(SELECT COUNT(*) FROM activities a WHERE a.service_id = s.id)
		FROM services s
		ORDER BY s.name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		svc := &domain.Service{}
		var description sql.NullString
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Slug, &description, &svc.CreatedAt, &svc.UpdatedAt, &svc.UserCount, &svc.ActivityCount); err != nil {
			return nil, err
		}
		svc.Description = description.String
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *serviceRepository) Update(ctx context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error) {
	query := `
		UPDATE services SET
			name = COALESCE($2, name),
			slug = COALESCE($3, slug),
			description = CASE WHEN $4 THEN NULLIF($5, '') ELSE description END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var name, slug sql.NullString
	if upd.Name != nil {
		name = sql.NullString{String: *upd.Name, Valid: true}
	}
	if upd.Slug != nil {
		slug = sql.NullString{String: *upd.Slug, Valid: true}
	}
	setDescription := upd.Description != nil
	description := ""
	if setDescription {
		description = *upd.Description
	}
	var updatedID string
	err := r.DB.QueryRowContext(ctx, query, id, name, slug, setDescription, description).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateService
		}
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	// Refuse while the service still owns rows; no cascade here.
	query := `
		DELETE FROM services s
		WHERE s.id = $1
		  AND NOT EXISTS (SELECT 1 FROM users u WHERE u.service_id = s.id)
		  AND NOT EXISTS (SELECT 1 FROM activities a WHERE a.service_id = s.id)
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Deleted nothing: distinguish absent from non-empty.
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM services WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrServiceNotEmpty
}
