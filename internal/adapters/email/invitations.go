package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	texttemplate "text/template"

	"smartmeet/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// addressRegexp is a loose email shape check. Participants are free text;
// only entries that look like addresses get an invitation. A participant
// written as "Jane (jane@example.com)" contributes the parenthesized address.
var addressRegexp = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

type invitationSender struct {
	mailer domain.Mailer
	logger *slog.Logger
}

// NewInvitationSender returns an InvitationSender that renders the embedded
// invitation templates and delivers through the given mailer.
func NewInvitationSender(mailer domain.Mailer, logger *slog.Logger) domain.InvitationSender {
	return &invitationSender{mailer: mailer, logger: logger}
}

// SendInvitations emails every participant with a recognizable address.
// Failures are collected per recipient; scheduling never fails because an
// invitation did.
func (s *invitationSender) SendInvitations(ctx context.Context, meeting *domain.Meeting) (int, []string) {
	sent := 0
	var failed []string
	for _, participant := range meeting.Participants {
		addr := addressRegexp.FindString(participant)
		if addr == "" {
			continue
		}
		subject, html, text, err := renderInvitation(domain.InvitationEmailData{
			Recipient: addr,
			Meeting:   meeting,
		})
		if err != nil {
			s.logger.Warn("failed to render invitation", "to", addr, "err", err)
			failed = append(failed, addr)
			continue
		}
		if err := s.mailer.Send(addr, subject, html, text); err != nil {
			s.logger.Warn("failed to send invitation", "to", addr, "err", err)
			failed = append(failed, addr)
			continue
		}
		sent++
	}
	return sent, failed
}

func renderInvitation(data domain.InvitationEmailData) (subject, htmlBody, textBody string, err error) {
	subject, err = renderFile("invitation_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = renderFile("invitation.html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = renderFile("invitation.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func renderFile(name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	t, err := texttemplate.New(name).Parse(string(raw))
	if err != nil {
		return "", err
	}
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
