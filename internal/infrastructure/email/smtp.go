package email

import (
	"context"
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/services/markdown"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// SMTPMailer renders markdown notification bodies and sends them over SMTP.
type SMTPMailer struct {
	from     string
	fromName string
	baseURL  string
	renderer markdown.Service
	send     func(m *gomail.Message) error
}

func NewSMTPMailer(cfg config.EmailConfig, baseURL string, renderer markdown.Service) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPMailer{
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		baseURL:  baseURL,
		renderer: renderer,
		send:     func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (s *SMTPMailer) SendNotification(ctx context.Context, to, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.renderer.ToHTMLSanitized(message)
	if err != nil {
		return err
	}

	htmlBody := fmt.Sprintf(`<html>
<body>
<h2>%s</h2>
%s
<p style="color:#888;font-size:12px">CSC Helpdesk%s</p>
</body>
</html>`, html.EscapeString(subject), body, s.footerLink())

	plainBody := subject + "\n\n" + s.renderer.StripTags(body)
	if s.baseURL != "" {
		plainBody += "\n\n" + s.baseURL
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPMailer) footerLink() string {
	if s.baseURL == "" {
		return ""
	}
	u := html.EscapeString(s.baseURL)
	return fmt.Sprintf(` · <a href="%s">%s</a>`, u, u)
}
