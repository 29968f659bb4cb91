// Package mail sends the transactional emails of the app. Every send is a
// single attempt; callers decide what a failure means.
package mail

import "context"

// Notifier sends one HTML email.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
