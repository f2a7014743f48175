package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"net/smtp"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"CODIGOCERTO_BACK-END/internal/config"
)

// Mailer sends a single HTML email. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer returns the Mailer selected by cfg.Provider
func NewMailer(ctx context.Context, cfg *config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case config.MailProviderGmail:
		return NewGmailMailer(ctx, cfg)
	case config.MailProviderSMTP, "":
		return NewSMTPMailer(cfg), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends email through an authenticated SMTP relay
type SMTPMailer struct {
	config   *config.EmailConfig
	sendMail sendMailFunc
}

// NewSMTPMailer creates a new SMTP mailer instance
func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		config:   cfg,
		sendMail: smtp.SendMail,
	}
}

// Send sends an HTML email using SMTP
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	// Check if credentials are set
	if m.config.SMTPUsername == "" || m.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := senderAddress(m.config)
	if from.Address == "" {
		from.Address = m.config.SMTPUsername
	}

	message, err := buildMessage(from, to, subject, htmlBody, time.Now())
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)
	addr := m.config.SMTPHost + ":" + m.config.SMTPPort
	if err := m.sendMail(addr, auth, from.Address, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// GmailMailer sends email through the Gmail API using an offline refresh token
type GmailMailer struct {
	service *gmail.Service
	from    mail.Address
}

// NewGmailMailer builds a Gmail API client authorised by the configured refresh token
func NewGmailMailer(ctx context.Context, cfg *config.EmailConfig) (*GmailMailer, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewGmailMailerWithService(service, cfg), nil
}

// NewGmailMailerWithService wraps an already configured Gmail service
func NewGmailMailerWithService(service *gmail.Service, cfg *config.EmailConfig) *GmailMailer {
	return &GmailMailer{service: service, from: senderAddress(cfg)}
}

// Send sends an HTML email as the authorised Gmail account
func (m *GmailMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message, err := buildMessage(m.from, to, subject, htmlBody, time.Now())
	if err != nil {
		return err
	}

	_, err = m.service.Users.Messages.
		Send("me", &gmail.Message{Raw: base64.URLEncoding.EncodeToString(message)}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to send email via gmail: %w", err)
	}
	return nil
}

func senderAddress(cfg *config.EmailConfig) mail.Address {
	return mail.Address{Name: cfg.FromName, Address: cfg.FromEmail}
}

// buildMessage composes an RFC 5322 message with a quoted-printable HTML body.
// Non-ASCII subjects and display names are encoded as RFC 2047 words.
func buildMessage(from mail.Address, to, subject, htmlBody string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(htmlBody)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	return buf.Bytes(), nil
}
