package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/Nonita16/viral-events-app/config"
	"github.com/jordan-wright/email"
)

// Mailer sends transactional mail. Controllers depend on this interface so
// tests can swap in a stub.
type Mailer interface {
	SendEventInvite(to string, eventTitle, eventDate, eventLocation, inviteURL string) error
}

// MailService sends mail over SMTP using the configured account.
type MailService struct {
	config *config.Config
}

func NewMailService() *MailService {
	return &MailService{
		config: config.GetConfig(),
	}
}

// shouldRetry reports whether a send error looks transient.
func (s *MailService) shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "i/o timeout")
}

func (s *MailService) sendMailInternal(e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", s.config.Mail.Host, s.config.Mail.Port)
	auth := smtp.PlainAuth("", s.config.Mail.Username, s.config.Mail.Password, s.config.Mail.Host)

	tlsConfig := &tls.Config{
		ServerName: s.config.Mail.Host,
		MinVersion: tls.VersionTLS12,
	}

	if s.config.Mail.UseTLS {
		switch s.config.Mail.Port {
		case 465:
			return e.SendWithTLS(addr, auth, tlsConfig)
		case 587:
			return e.SendWithStartTLS(addr, auth, tlsConfig)
		default:
			return fmt.Errorf("unsupported port/TLS combination: port %d UseTLS=%v", s.config.Mail.Port, s.config.Mail.UseTLS)
		}
	}
	if s.config.Mail.Port == 25 {
		return e.Send(addr, auth)
	}
	return fmt.Errorf("unsupported port without TLS: port %d", s.config.Mail.Port)
}

// SendMail sends an HTML mail, with one retry on transient network errors.
func (s *MailService) SendMail(to string, subject string, content string) error {
	if !s.config.Mail.Enabled {
		return fmt.Errorf("mail delivery is disabled")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.config.Mail.FromName, s.config.Mail.FromAddress)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(content)

	err := s.sendMailInternal(e)
	if err != nil && s.shouldRetry(err) {
		time.Sleep(2 * time.Second)
		err = s.sendMailInternal(e)
	}
	if err != nil {
		return fmt.Errorf("failed to send mail: %v", err)
	}
	return nil
}

const inviteTemplate = `
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #333;">You're invited!</h2>
	<p style="font-size: 16px; line-height: 1.5;">You have been invited to:</p>
	<div style="background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px;">
		<p style="font-size: 22px; font-weight: bold; color: #007bff;">{{.Title}}</p>
		<p style="font-size: 14px; color: #666;">{{.Date}}{{if .Location}} &middot; {{.Location}}{{end}}</p>
	</div>
	<p style="font-size: 14px; line-height: 1.5;">
		<a href="{{.URL}}" style="color: #007bff;">View the event and RSVP</a>
	</p>
	<p style="font-size: 12px; color: #999; margin-top: 20px;">This mail was sent automatically, please do not reply.</p>
</div>
`

// SendEventInvite sends the invite mail for an event. The enclosing request
// never waits on or fails with this call.
func (s *MailService) SendEventInvite(to string, eventTitle, eventDate, eventLocation, inviteURL string) error {
	tmpl, err := template.New("invite").Parse(inviteTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse invite mail template: %v", err)
	}

	data := struct {
		Title    string
		Date     string
		Location string
		URL      string
	}{
		Title:    eventTitle,
		Date:     eventDate,
		Location: eventLocation,
		URL:      inviteURL,
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render invite mail: %v", err)
	}

	return s.SendMail(to, fmt.Sprintf("Invitation: %s", eventTitle), body.String())
}
