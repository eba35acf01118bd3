package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"regexp"
	"strings"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	log "github.com/sirupsen/logrus"
)

// ContactMessage is a visitor's message from the site's contact form.
type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" ||
		strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Message) == "" {
		return apperror.Validation("All fields (name, email, subject, message) are required.")
	}
	if !emailPattern.MatchString(m.Email) {
		return apperror.Validation("Invalid email format.")
	}
	return nil
}

// SMTPConfig holds the outgoing mail account. Messages are delivered to the
// same account.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailService delivers contact form messages to the site owner.
type MailService struct {
	cfg  SMTPConfig
	send sendFunc
	loc  *time.Location
}

func NewMailService(cfg SMTPConfig) *MailService {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}
	return &MailService{cfg: cfg, send: smtp.SendMail, loc: loc}
}

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Arial, sans-serif; background-color: #f0f2f5; padding: 20px; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px;">
    <div style="background: #1a1a2e; padding: 32px 28px; text-align: center;">
      <h1 style="margin: 0; color: #ffa500; font-size: 22px;">New Contact Message</h1>
      <p style="margin: 8px 0 0; color: #aaa; font-size: 13px;">From your portfolio website</p>
    </div>
    <div style="padding: 28px;">
      <p><strong>Name</strong><br>{{.Name}}</p>
      <p><strong>Email</strong><br><a href="mailto:{{.Email}}">{{.Email}}</a></p>
      <p><strong>Subject</strong><br>{{.Subject}}</p>
      <p><strong>Message</strong></p>
      <p style="background: #f8f9fa; border-radius: 8px; padding: 18px; white-space: pre-wrap;">{{.Message}}</p>
    </div>
    <div style="background: #f0f2f5; padding: 18px 28px; text-align: center; font-size: 12px; color: #999;">
      Sent via Portfolio Contact Form &bull; {{.SentAt}}
    </div>
  </div>
</body>
</html>
`))

// headerSafe strips line breaks so visitor input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// SendContact validates msg and mails it with the visitor as Reply-To.
func (s *MailService) SendContact(ctx context.Context, msg ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if s.cfg.User == "" {
		return fmt.Errorf("mail account not configured")
	}

	view := msg
	view.Subject = headerSafe(msg.Subject)
	var body bytes.Buffer
	err := contactTemplate.Execute(&body, struct {
		ContactMessage
		SentAt string
	}{view, time.Now().In(s.loc).Format("02/01/2006, 15:04:05")})
	if err != nil {
		return fmt.Errorf("failed to render contact mail: %w", err)
	}

	name := headerSafe(msg.Name)
	raw := []byte("Subject: [Portfolio Contact] " + headerSafe(msg.Subject) + "\r\n" +
		fmt.Sprintf("From: %q <%s>\r\n", name, s.cfg.User) +
		fmt.Sprintf("Reply-To: %q <%s>\r\n", name, headerSafe(msg.Email)) +
		"To: " + s.cfg.User + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
		body.String())

	if err := ctx.Err(); err != nil {
		return err
	}
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.User, []string{s.cfg.User}, raw); err != nil {
		log.Printf("[SendContact] error sending mail from %s: %v", msg.Email, err)
		return fmt.Errorf("failed to send contact mail: %w", err)
	}
	log.Printf("[SendContact] mail sent for %s", msg.Email)
	return nil
}
