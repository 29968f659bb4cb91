package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends mail through the SendGrid v3 API.
type SendGridNotifier struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridNotifier(apiKey, from, fromName string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from, fromName: fromName}
}

func (n *SendGridNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if n.apiKey == "" {
		return fmt.Errorf("sendgrid api key is not configured")
	}
	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail(n.fromName, n.from),
		subject,
		sgmail.NewEmail("", to),
		"",
		htmlBody,
	)
	resp, err := sendgrid.NewSendClient(n.apiKey).SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", to, resp.StatusCode, resp.Body)
	}
	return nil
}
