package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/resend/resend-go/v2"

	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/validation"
)

const (
	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
	MailProviderLog    = "log"
)

var (
	ErrEmailNotConfigured = errors.New("email service not configured")
	ErrNoRecipients       = errors.New("no recipients configured")
)

// Message is one outgoing email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message with a single attempt.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// NewMailer picks the relay named by MAIL_PROVIDER, or the first one that is
// configured: Resend, then SMTP, then logging in development.
// It returns a nil Mailer when nothing is usable.
func NewMailer(cfg *config.Config, httpClient *http.Client) (Mailer, error) {
	from := cfg.EmailFrom
	if cfg.EmailFromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)
	}

	provider := cfg.MailProvider
	if provider == "" {
		switch {
		case cfg.ResendAPIKey != "":
			provider = MailProviderResend
		case cfg.SMTPUsername != "" && cfg.SMTPPassword != "":
			provider = MailProviderSMTP
		case cfg.IsDevelopment():
			provider = MailProviderLog
		default:
			return nil, nil
		}
	}

	switch provider {
	case MailProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend mail provider: %w (missing RESEND_API_KEY)", ErrEmailNotConfigured)
		}
		if httpClient == nil {
			httpClient = &http.Client{Timeout: 30 * time.Second}
		}
		return &resendMailer{client: resend.NewCustomClient(httpClient, cfg.ResendAPIKey), from: from}, nil
	case MailProviderSMTP:
		if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
			return nil, fmt.Errorf("smtp mail provider: %w (missing SMTP_USERNAME or SMTP_PASSWORD)", ErrEmailNotConfigured)
		}
		return &smtpMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			from:     cfg.EmailFrom,
			fromName: cfg.EmailFromName,
		}, nil
	case MailProviderLog:
		return logMailer{}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", provider)
	}
}

type resendMailer struct {
	client *resend.Client
	from   string
}

func (m *resendMailer) Name() string { return MailProviderResend }

func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// smtpMailer relays through an SMTP server (Gmail by default) via shoutrrr.
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func (m *smtpMailer) Name() string { return MailProviderSMTP }

// URL builds the shoutrrr service URL for the given recipients.
func (m *smtpMailer) URL(to []string) string {
	encryption := "Auto"
	if m.port == 465 {
		encryption = "ImplicitTLS"
	}

	query := url.Values{}
	query.Set("fromaddress", m.from)
	if m.fromName != "" {
		query.Set("fromname", m.fromName)
	}
	query.Set("toaddresses", strings.Join(to, ","))
	query.Set("usehtml", "yes")
	query.Set("encryption", encryption)

	u := url.URL{
		Scheme:   "smtp",
		User:     url.UserPassword(m.username, m.password),
		Host:     m.host + ":" + strconv.Itoa(m.port),
		Path:     "/",
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	sender, err := shoutrrr.CreateSender(m.URL(msg.To))
	if err != nil {
		return fmt.Errorf("smtp: invalid configuration: %w", err)
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	if deadline, ok := ctx.Deadline(); ok {
		sender.Timeout = time.Until(deadline)
	}

	params := stypes.Params{}
	params.SetTitle(msg.Subject)

	for _, err := range sender.Send(msg.HTML, &params) {
		if err != nil {
			// shoutrrr errors may echo the URL, which carries the password
			return fmt.Errorf("smtp: send failed: %s", strings.ReplaceAll(err.Error(), m.password, "***"))
		}
	}
	return nil
}

// logMailer only logs. Used in development without a relay.
type logMailer struct{}

func (logMailer) Name() string { return MailProviderLog }

func (logMailer) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "email sent (dev mode)", "to", msg.To, "subject", msg.Subject, "html_bytes", len(msg.HTML))
	return nil
}

// EmailService sends mail to the configured household recipients.
type EmailService struct {
	mailer     Mailer
	recipients []string
}

func NewEmailService(mailer Mailer, recipients []string) *EmailService {
	var valid []string
	for _, r := range recipients {
		err := validation.ValidateEmail(r)
		if err != nil {
			slog.Warn("ignoring invalid recipient", "recipient", r, "error", err)
			continue
		}
		valid = append(valid, r)
	}

	return &EmailService{mailer: mailer, recipients: valid}
}

func (s *EmailService) Configured() bool {
	return s.mailer != nil && len(s.recipients) > 0
}

// Send makes one delivery attempt to every recipient.
func (s *EmailService) Send(ctx context.Context, subject, html, text string) error {
	if s.mailer == nil {
		return ErrEmailNotConfigured
	}
	if len(s.recipients) == 0 {
		return fmt.Errorf("%w: %w", ErrEmailNotConfigured, ErrNoRecipients)
	}

	err := s.mailer.Send(ctx, Message{
		To:      s.recipients,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "email sent", "provider", s.mailer.Name(), "recipients", len(s.recipients), "subject", subject)
	return nil
}
