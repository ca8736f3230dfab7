// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/models"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg config.EmailConfig
}

func (m *smtpMailer) Send(to []string, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.FromEmail, strings.Join(to, ", "), subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, to, msg)
}

// NotificationService emails the admin allow-list about work waiting for
// them. Without an SMTP host it is disabled and every send is a no-op.
type NotificationService struct {
	mailer     Mailer
	recipients []string
	siteURL    string
}

var reviewSubmittedTemplate = template.Must(template.New("review_submitted").Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>New review waiting for moderation</h2>
	<p>{{.UserName}} rated product {{.ProductID}} {{.Rating}}/5:</p>
	<blockquote>{{.Content}}</blockquote>
	{{if .ModerationURL}}<a href="{{.ModerationURL}}">Moderate reviews</a>{{end}}
</body>
</html>`))

func NewNotificationService(cfg *config.Config) *NotificationService {
	s := &NotificationService{
		recipients: cfg.Auth.AdminEmails,
		siteURL:    strings.TrimRight(cfg.Email.SiteURL, "/"),
	}
	if cfg.Email.SMTPHost != "" {
		s.mailer = &smtpMailer{cfg: cfg.Email}
	}
	return s
}

// NewNotificationServiceWithMailer is used when the transport is provided
// by the caller.
func NewNotificationServiceWithMailer(mailer Mailer, recipients []string, siteURL string) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		recipients: recipients,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

func (s *NotificationService) Enabled() bool {
	return s != nil && s.mailer != nil && len(s.recipients) > 0
}

// NotifyReviewSubmitted tells the admins a pending review needs moderation.
func (s *NotificationService) NotifyReviewSubmitted(review *models.Review) error {
	if !s.Enabled() {
		return nil
	}

	data := map[string]interface{}{
		"UserName":  review.UserName,
		"ProductID": review.ProductID,
		"Rating":    review.Rating,
		"Content":   review.Content,
	}
	if s.siteURL != "" {
		data["ModerationURL"] = s.siteURL + "/admin/reviews?status=pending"
	}

	body, err := s.renderTemplate(reviewSubmittedTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("New review (%d/5) pending moderation", review.Rating)
	if err := s.mailer.Send(s.recipients, subject, body); err != nil {
		return fmt.Errorf("failed to send review notification: %w", err)
	}
	return nil
}

func (s *NotificationService) renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
