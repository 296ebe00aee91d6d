// services/email_service.go
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Notifier delivers the offer email. Fire-and-forget from the assembler's
// perspective: failure is logged and recorded on the offer row, never
// propagated as a pipeline failure.
type Notifier interface {
	Send(to, subject, htmlBody string) error
}

// SMTPConfig is resolved once at startup and handed to the notifier
// explicitly.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string

	// ContactOverride redirects every outbound mail to one address when set
	// (demo environments).
	ContactOverride string
}

type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Send(to, subject, htmlBody string) error {
	if n.cfg.Host == "" || n.cfg.Port == "" {
		return fmt.Errorf("smtp not configured")
	}

	recipient := to
	if n.cfg.ContactOverride != "" {
		recipient = n.cfg.ContactOverride
	}

	from := n.cfg.From
	if from == "" {
		from = n.cfg.Username
	}
	fromHeader := from
	if n.cfg.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", n.cfg.FromName, from)
	}

	var msg strings.Builder
	msg.WriteString("From: " + fromHeader + "\r\n")
	msg.WriteString("To: " + recipient + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := n.cfg.Host + ":" + n.cfg.Port
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	log.Printf("[email] sent %q to %s (intended for %s)", subject, recipient, to)
	return nil
}
