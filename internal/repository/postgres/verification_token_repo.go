package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"semecity/internal/domain"
)

type verificationTokenRepository struct {
	DB *sql.DB
}

func NewVerificationTokenRepository(db *sql.DB) domain.VerificationTokenRepository {
	return &verificationTokenRepository{DB: db}
}

func (r *verificationTokenRepository) Create(ctx context.Context, identifier, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO verification_tokens (identifier, token, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, identifier, token, expiresAt)
	return err
}

func (r *verificationTokenRepository) GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	query := `
		SELECT identifier, token, expires_at
		FROM verification_tokens
		WHERE token = $1
	`
	vt := &domain.VerificationToken{}
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&vt.Identifier, &vt.Token, &vt.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return vt, nil
}

func (r *verificationTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token)
	return err
}
