// Package mailer sends guest invitation emails. Delivery is best effort: the
// signing workflow never fails because a mail could not go out.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"parapheur/internal/config"
)

type Mailer interface {
	SendInvitation(ctx context.Context, to, guestName, signingURL string) error
}

var invitationTmpl = template.Must(template.New("invitation").Parse(
	"From: {{.From}}\r\n" +
		"To: {{.To}}\r\n" +
		"Subject: Signature requise / Signature requested\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Bonjour {{.Name}},\r\n" +
		"\r\n" +
		"Un document attend votre signature. Ouvrez le lien ci-dessous pour le consulter et le signer :\r\n" +
		"A document is waiting for your signature. Open the link below to review and sign it:\r\n" +
		"\r\n" +
		"{{.URL}}\r\n"))

// SMTP delivers invitations through a plain SMTP relay.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTP(cfg config.Config) *SMTP {
	m := &SMTP{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		from: cfg.SMTPFrom,
	}
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return m
}

func (m *SMTP) SendInvitation(_ context.Context, to, guestName, signingURL string) error {
	if guestName == "" {
		guestName = to
	}
	var body bytes.Buffer
	err := invitationTmpl.Execute(&body, map[string]string{
		"From": m.from,
		"To":   to,
		"Name": guestName,
		"URL":  signingURL,
	})
	if err != nil {
		return fmt.Errorf("render invitation: %w", err)
	}
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, body.Bytes()); err != nil {
		return fmt.Errorf("send invitation to %s: %w", to, err)
	}
	return nil
}

// Disabled is used when no SMTP host is configured.
type Disabled struct{}

func (Disabled) SendInvitation(context.Context, string, string, string) error { return nil }

// FromConfig picks the SMTP mailer when configured, Disabled otherwise.
func FromConfig(cfg config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return Disabled{}
	}
	return NewSMTP(cfg)
}
