package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"semecity/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, service_id, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var verified sql.NullTime
	if u.EmailVerified != nil {
		verified = sql.NullTime{Time: *u.EmailVerified, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query,
		u.Name, u.Email, nullString(u.PasswordHash), string(u.Role), nullString(u.ServiceID), verified, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.service_id, s.name, u.email_verified, u.created_at, u.updated_at
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var passwordHash, serviceID, serviceName sql.NullString
	var verified sql.NullTime
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &passwordHash, &role, &serviceID, &serviceName, &verified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.PasswordHash = passwordHash.String
	u.Role = domain.Role(role)
	u.ServiceID = serviceID.String
	u.ServiceName = serviceName.String
	if verified.Valid {
		t := verified.Time
		u.EmailVerified = &t
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN services s ON s.id = u.service_id
		WHERE u.email = $1
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `,
			(SELECT COUNT(*) FROM activities a WHERE a.created_by_id = u.id),
			(SELECT COUNT(*) FROM registrations reg WHERE reg.user_id = u.id)
		FROM users u
		LEFT JOIN services s ON s.id = u.service_id
		WHERE u.id = $1
	`
	u := &domain.User{}
	var passwordHash, serviceID, serviceName sql.NullString
	var verified sql.NullTime
	var role string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &passwordHash, &role, &serviceID, &serviceName, &verified, &u.CreatedAt, &u.UpdatedAt,
		&u.CreatedActivityCount, &u.RegistrationCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.PasswordHash = passwordHash.String
	u.Role = domain.Role(role)
	u.ServiceID = serviceID.String
	u.ServiceName = serviceName.String
	if verified.Valid {
		t := verified.Time
		u.EmailVerified = &t
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN services s ON s.id = u.service_id
		WHERE 1=1
	`
	var args []any
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		query += ` AND u.role = $` + itoa(len(args))
	}
	if filter.ServiceID != "" {
		args = append(args, filter.ServiceID)
		query += ` AND u.service_id = $` + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := itoa(len(args))
		query += ` AND (LOWER(u.name) LIKE $` + n + ` OR LOWER(u.email) LIKE $` + n + `)`
	}
	query += ` ORDER BY u.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	query := `
		UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			role = COALESCE($4, role),
			service_id = CASE WHEN $5 THEN NULLIF($6, '') ELSE service_id END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var name, email, role sql.NullString
	if upd.Name != nil {
		name = sql.NullString{String: *upd.Name, Valid: true}
	}
	if upd.Email != nil {
		email = sql.NullString{String: *upd.Email, Valid: true}
	}
	if upd.Role != nil {
		role = sql.NullString{String: string(*upd.Role), Valid: true}
	}
	setService := upd.ServiceID != nil
	serviceID := ""
	if setService {
		serviceID = *upd.ServiceID
	}
	var updatedID string
	err := r.DB.QueryRowContext(ctx, query, id, name, email, role, setService, serviceID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *userRepository) MarkEmailVerified(ctx context.Context, email string, verifiedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email_verified = $2, updated_at = NOW() WHERE email = $1`, email, verifiedAt)
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
