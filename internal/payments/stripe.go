// Package payments wraps the Stripe SDK calls the functions make.
package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe verifies webhooks and creates checkout sessions.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	return &Stripe{api: client.New(secretKey, nil), webhookSecret: webhookSecret}
}

// ConstructEvent checks the Stripe-Signature header against the endpoint
// secret and parses the event. Events from a newer API version are accepted;
// only the fields this package reads are used.
func (s *Stripe) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	if s.webhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("stripe webhook secret is not configured")
	}
	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

func (s *Stripe) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.New(params)
}
