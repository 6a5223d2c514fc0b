package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"time"

	"stagehand/internal/shared/config"
)

// EmailService sends a rendered notification to its recipient
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &SMTPEmailService{
		config:    config,
		templates: make(map[NotificationType]*template.Template),
	}
	service.loadDefaultTemplates()
	return service, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := s.generateContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}
	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{ServerName: s.config.Host}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var message bytes.Buffer
	fmt.Fprintf(&message, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	fmt.Fprintf(&message, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&message, "Content-Type: multipart/alternative; boundary=%s\r\n", boundary)
	message.WriteString("\r\n")

	if textBody != "" {
		fmt.Fprintf(&message, "--%s\r\n", boundary)
		message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		message.WriteString(textBody + "\r\n")
	}
	if htmlBody != "" {
		fmt.Fprintf(&message, "--%s\r\n", boundary)
		message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		message.WriteString(htmlBody + "\r\n")
	}
	fmt.Fprintf(&message, "--%s--\r\n", boundary)

	return message.Bytes()
}

func (s *SMTPEmailService) generateContent(notification *EmailNotification) (string, string, error) {
	tmpl, exists := s.templates[notification.Type]
	if !exists {
		text := fmt.Sprintf("Hello %s,\n\nYou have a new notification from Stagehand.\n", notification.RecipientName)
		return "", text, nil
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBuf, "html", notification); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&textBuf, "text", notification); err != nil {
		textBuf.Reset()
		textBuf.WriteString("Please view this email in HTML format.")
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func (s *SMTPEmailService) loadDefaultTemplates() {
	definitions := map[NotificationType]string{
		NotificationTypeRegistrationConfirmed: `
{{define "html"}}<p>Hi {{.RecipientName}},</p>
<p>You're confirmed for <strong>{{.TemplateData.role}}</strong> at {{.TemplateData.event_name}} ({{.TemplateData.starts_at}} to {{.TemplateData.ends_at}}).</p>
{{if .TemplateData.cancel_url}}<p>Need to drop out? <a href="{{.TemplateData.cancel_url}}">Cancel your spot</a> before the deadline.</p>{{end}}{{end}}
{{define "text"}}Hi {{.RecipientName}},

You're confirmed for {{.TemplateData.role}} at {{.TemplateData.event_name}} ({{.TemplateData.starts_at}} to {{.TemplateData.ends_at}}).
{{if .TemplateData.cancel_url}}Cancel link: {{.TemplateData.cancel_url}}{{end}}{{end}}`,

		NotificationTypeRegistrationWaitlisted: `
{{define "html"}}<p>Hi {{.RecipientName}},</p>
<p>The <strong>{{.TemplateData.role}}</strong> shift at {{.TemplateData.event_name}} is currently full. You're on the waitlist and we'll email you the moment a spot opens.</p>{{end}}
{{define "text"}}Hi {{.RecipientName}},

The {{.TemplateData.role}} shift at {{.TemplateData.event_name}} is currently full. You're on the waitlist and we'll email you the moment a spot opens.{{end}}`,

		NotificationTypeWaitlistPromoted: `
{{define "html"}}<p>Hi {{.RecipientName}},</p>
<p>Good news! A spot opened up and you're now confirmed for <strong>{{.TemplateData.role}}</strong> at {{.TemplateData.event_name}} ({{.TemplateData.starts_at}} to {{.TemplateData.ends_at}}).</p>{{end}}
{{define "text"}}Hi {{.RecipientName}},

Good news! A spot opened up and you're now confirmed for {{.TemplateData.role}} at {{.TemplateData.event_name}} ({{.TemplateData.starts_at}} to {{.TemplateData.ends_at}}).{{end}}`,

		NotificationTypeCancellationConfirmed: `
{{define "html"}}<p>Hi {{.RecipientName}},</p>
<p>Your registration for <strong>{{.TemplateData.role}}</strong> at {{.TemplateData.event_name}} has been cancelled.</p>{{end}}
{{define "text"}}Hi {{.RecipientName}},

Your registration for {{.TemplateData.role}} at {{.TemplateData.event_name}} has been cancelled.{{end}}`,
	}

	for notType, text := range definitions {
		tmpl, err := template.New(string(notType)).Parse(text)
		if err != nil {
			log.Printf("failed to parse template for %s: %v", notType, err)
			continue
		}
		s.templates[notType] = tmpl
	}
}

// LogEmailService is the development fallback when SMTP is not configured.
// Notifications land in the process log instead of a mailbox.
type LogEmailService struct{}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("email (log only) - type: %s, to: %s <%s>, subject: %q",
		notification.Type, notification.RecipientName, notification.RecipientEmail, notification.Subject)
	return nil
}

func (s *LogEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("email (log only) - to: %s, subject: %q", to, subject)
	return nil
}
