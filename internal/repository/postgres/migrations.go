package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order by Migrate. Each statement must be
// idempotent; there is no down path.
var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		role TEXT NOT NULL CHECK (role IN ('ADMIN', 'RESPONSABLE_SERVICE', 'INTERVENANT', 'PARTICIPANT')),
		service_id UUID REFERENCES services(id),
		email_verified TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		description TEXT,
		date TIMESTAMPTZ NOT NULL,
		location TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('DRAFT', 'ACTIVE', 'CLOSED')),
		requires_registration BOOLEAN NOT NULL DEFAULT FALSE,
		access_token TEXT NOT NULL UNIQUE,
		service_id UUID NOT NULL REFERENCES services(id),
		intervenant_id UUID REFERENCES users(id),
		created_by_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS attendances (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		organization TEXT,
		signature TEXT,
		activity_id UUID NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (activity_id, email)
	)`,

	`CREATE TABLE IF NOT EXISTS feedbacks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		overall_rating INT NOT NULL CHECK (overall_rating BETWEEN 1 AND 5),
		content_rating INT NOT NULL CHECK (content_rating BETWEEN 1 AND 5),
		organization_rating INT NOT NULL CHECK (organization_rating BETWEEN 1 AND 5),
		comment TEXT,
		suggestions TEXT,
		would_recommend BOOLEAN NOT NULL DEFAULT TRUE,
		participant_name TEXT,
		participant_email TEXT,
		activity_id UUID NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS registrations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		activity_id UUID NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, activity_id)
	)`,

	`CREATE TABLE IF NOT EXISTS invitations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('ADMIN', 'RESPONSABLE_SERVICE', 'INTERVENANT', 'PARTICIPANT')),
		service_id UUID REFERENCES services(id),
		token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		accepted_at TIMESTAMPTZ,
		sender_id UUID NOT NULL REFERENCES users(id),
		receiver_id UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS verification_tokens (
		identifier TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_service ON activities (service_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_intervenant ON activities (intervenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_activity ON attendances (activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_email ON attendances (email)`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_activity ON feedbacks (activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_email ON feedbacks (participant_email)`,
	`CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations (email)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations (user_id)`,
}

// Migrate applies the schema migrations in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
