package mail

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
)

// SMTPConfig configures an SMTPNotifier.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// SMTPNotifier sends mail through an authenticated SMTP relay (Gmail in production).
type SMTPNotifier struct {
	cfg SMTPConfig
	// send is smtp.SendMail; replaced in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// Send delivers the message. smtp.SendMail does not take a context, so ctx is
// only checked before dialing.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.cfg.Password == "" {
		return fmt.Errorf("smtp password is not configured")
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{to}, buildMessage(n.cfg.From, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
