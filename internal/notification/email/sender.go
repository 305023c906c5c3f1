// Package email delivers notification emails over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"flowboard_backend/platform/config"
)

const subjectProjectCompleted = "Project afgerond: %s"

var projectCompletedTemplate = template.Must(template.New("project_completed").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Project afgerond</h2>
  <p>Het project <strong>{{.ProjectName}}</strong> heeft de eindfase bereikt ({{.Status}}).</p>
  <p>Bekijk het bord voor de details.</p>
</body>
</html>`))

// ProjectCompletedData carries the template fields for the completion email.
type ProjectCompletedData struct {
	ProjectName string
	Status      string
}

// Sender delivers notification emails.
type Sender interface {
	SendProjectCompletedEmail(ctx context.Context, toEmail string, data ProjectCompletedData) error
}

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendProjectCompletedEmail mails the organization owner that a project
// reached a terminal column.
func (s *SMTPSender) SendProjectCompletedEmail(ctx context.Context, toEmail string, data ProjectCompletedData) error {
	var body bytes.Buffer
	if err := projectCompletedTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	subject := fmt.Sprintf(subjectProjectCompleted, data.ProjectName)
	return s.send(ctx, toEmail, subject, body.String())
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
