package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template with data and
// returns subject, html, and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData is the payload for the invitation email template.
type InvitationEmailData struct {
	Email       string
	InviteURL   string
	InviterName string
	RoleLabel   string
	ServiceName string
}

// VerificationEmailData is the payload for the email verification template.
type VerificationEmailData struct {
	Email     string
	Name      string
	VerifyURL string
}

// EmailService defines the business-level email notifications. Sends are
// best-effort: callers log failures and never roll back the primary write.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendVerification(ctx context.Context, data *VerificationEmailData) error
}
