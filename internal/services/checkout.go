package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/pkg/validate"
	"github.com/stripe/stripe-go/v76"
)

// SessionCreator creates hosted payment checkout sessions.
type SessionCreator interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// CheckoutConfig describes the single product sold: one upload credit.
type CheckoutConfig struct {
	UnitAmount int64
	SuccessURL string
	CancelURL  string
}

type CheckoutService struct {
	sessions SessionCreator
	cfg      CheckoutConfig
}

func NewCheckoutService(sessions SessionCreator, cfg CheckoutConfig) *CheckoutService {
	return &CheckoutService{sessions: sessions, cfg: cfg}
}

// Create opens a card checkout for one upload credit. The order number is
// passed through as the client reference.
func (s *CheckoutService) Create(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: missing email or orderNumber", models.ErrValidation)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Song Reaktor Upload Credit"),
					Description: stripe.String("1 song upload + 10 Reaktions"),
				},
				UnitAmount: stripe.Int64(s.cfg.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(req.OrderNumber),
	}
	params.Context = ctx

	session, err := s.sessions.NewCheckoutSession(params)
	if err != nil {
		slog.Error("Stripe session creation failed", "error", err, "orderNumber", req.OrderNumber)
		return nil, fmt.Errorf("%w: stripe session creation failed: %v", models.ErrDependency, err)
	}
	slog.Info("Stripe session created.", "sessionId", session.ID)
	return &models.CheckoutResponse{URL: session.URL, SessionID: session.ID}, nil
}
