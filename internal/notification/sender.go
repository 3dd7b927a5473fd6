package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/frahmantamala/workforce-management/internal"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
)

// Job is one notification on its way to a transport.
type Job struct {
	Notification *notificationDatamodel.Notification
	Email        string
	Name         string
}

// Sender delivers a job over one channel.
type Sender interface {
	Send(ctx context.Context, job Job) error
}

// LogSender records deliveries in the log. It backs the in-app channel and
// stands in for transports that are not configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, job Job) error {
	n := job.Notification
	s.Logger.Info("notification delivered",
		"notification_id", n.ID,
		"recipient_id", n.RecipientID,
		"channel", n.Channel,
		"message", n.Message)
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender mails notifications to the recipient's address.
type SMTPSender struct {
	cfg      internal.SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPSender(cfg internal.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, job Job) error {
	if job.Email == "" {
		return fmt.Errorf("notification %d: recipient has no email address", job.Notification.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{job.Email}, composeMail(s.cfg.From, job)); err != nil {
		return fmt.Errorf("send mail to %s: %w", job.Email, err)
	}
	return nil
}

func composeMail(from string, job Job) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	if job.Name != "" {
		fmt.Fprintf(&b, "To: %s <%s>\r\n", job.Name, job.Email)
	} else {
		fmt.Fprintf(&b, "To: %s\r\n", job.Email)
	}
	b.WriteString("Subject: Workforce notification\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(job.Notification.Message)
	b.WriteString("\r\n")
	return []byte(b.String())
}
