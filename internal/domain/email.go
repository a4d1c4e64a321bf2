package domain

import "context"

// Mailer sends a single email. Implementations may be AWS SES or a no-op.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// InvitationEmailData is the template input for one meeting invitation.
type InvitationEmailData struct {
	Recipient string
	Meeting   *Meeting
}

// InvitationSender delivers invitation emails for a scheduled meeting to
// every participant that looks like an email address. Delivery failures are
// reported per recipient and never abort scheduling.
type InvitationSender interface {
	SendInvitations(ctx context.Context, meeting *Meeting) (sent int, failed []string)
}
