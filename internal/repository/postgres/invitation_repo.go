package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"semecity/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (email, role, service_id, token, expires_at, sender_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.Email, string(inv.Role), nullString(inv.ServiceID), inv.Token, inv.ExpiresAt, inv.SenderID, inv.CreatedAt,
	).Scan(&inv.ID)
}

const invitationColumns = `
	i.id, i.email, i.role, i.service_id, s.name, i.token, i.expires_at, i.accepted_at,
	i.sender_id, snd.name, i.receiver_id, i.created_at
`

const invitationJoins = `
	FROM invitations i
	LEFT JOIN services s ON s.id = i.service_id
	INNER JOIN users snd ON snd.id = i.sender_id
`

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var serviceID, serviceName, receiverID sql.NullString
	var acceptedAt sql.NullTime
	var role string
	err := row.Scan(&inv.ID, &inv.Email, &role, &serviceID, &serviceName, &inv.Token, &inv.ExpiresAt, &acceptedAt, &inv.SenderID, &inv.SenderName, &receiverID, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.Role = domain.Role(role)
	inv.ServiceID = serviceID.String
	inv.ServiceName = serviceName.String
	inv.ReceiverID = receiverID.String
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	return inv, nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + invitationJoins + ` WHERE i.token = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return inv, err
}

func (r *invitationRepository) HasPending(ctx context.Context, email string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE email = $1 AND accepted_at IS NULL AND expires_at > $2
		)
	`
	var pending bool
	if err := r.DB.QueryRowContext(ctx, query, email, now).Scan(&pending); err != nil {
		return false, err
	}
	return pending, nil
}

func (r *invitationRepository) List(ctx context.Context, serviceID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + invitationJoins
	var args []any
	if serviceID != "" {
		args = append(args, serviceID)
		query += ` WHERE i.service_id = $1`
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// Accept creates the invited user and marks the invitation accepted in one
// transaction so a failed acceptance leaves no partial state behind.
func (r *invitationRepository) Accept(ctx context.Context, invitationID string, user *domain.User, acceptedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var verified sql.NullTime
	if user.EmailVerified != nil {
		verified = sql.NullTime{Time: *user.EmailVerified, Valid: true}
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, service_id, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, user.Name, user.Email, nullString(user.PasswordHash), string(user.Role), nullString(user.ServiceID), verified, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE invitations SET accepted_at = $2, receiver_id = $3
		WHERE id = $1 AND accepted_at IS NULL
	`, invitationID, acceptedAt, user.ID)
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Raced with a concurrent acceptance; roll the user back.
		return domain.ErrInvitationAccepted
	}

	return tx.Commit()
}
