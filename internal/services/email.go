package services

import (
	"context"
	"fmt"
	"log"

	"semecity/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendInvitation sends the invitation email using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation sent to %s", data.Email)
	return nil
}

// SendVerification sends the email verification link using the "verify_email" template.
func (s *emailService) SendVerification(ctx context.Context, data *domain.VerificationEmailData) error {
	if data == nil {
		return fmt.Errorf("verification email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("verify_email", data)
	if err != nil {
		return fmt.Errorf("failed to render verify_email template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	log.Printf("[EMAIL] Verification email sent to %s", data.Email)
	return nil
}
