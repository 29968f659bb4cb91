package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/songreaktor/functions/internal/mail"
	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/pkg/code"
	"github.com/stripe/stripe-go/v76"
)

const checkoutCompleted = "checkout.session.completed"

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) (string, error)
	LatestUnused(ctx context.Context, email string) (*models.Order, error)
}

// WebhookVerifier authenticates and parses a payment provider webhook.
type WebhookVerifier interface {
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

// OrderService issues upload credits for completed payments.
type OrderService struct {
	orders   OrderStore
	verifier WebhookVerifier
	notifier mail.Notifier
	newCode  func() (string, error)
}

func NewOrderService(orders OrderStore, verifier WebhookVerifier, notifier mail.Notifier) *OrderService {
	return &OrderService{orders: orders, verifier: verifier, notifier: notifier, newCode: code.SixDigit}
}

// HandleWebhook verifies a Stripe webhook and, for a completed checkout,
// issues an order. A bad signature or payload wraps ErrValidation; store and
// mail failures wrap ErrDependency. Other event types are acknowledged as-is.
func (s *OrderService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.verifier.ConstructEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	logCtx := slog.With("eventId", event.ID, "eventType", string(event.Type))
	if string(event.Type) != checkoutCompleted {
		logCtx.Info("Ignoring webhook event.")
		return nil
	}
	if event.Data == nil {
		return fmt.Errorf("%w: event has no data", models.ErrValidation)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("%w: decode checkout session: %v", models.ErrValidation, err)
	}

	if _, err := s.IssueOrder(ctx, customerEmail(&session)); err != nil {
		logCtx.Error("Error during order flow", "error", err)
		return err
	}
	return nil
}

// IssueOrder creates an unused order with a fresh 6-digit order number and
// emails it to email.
func (s *OrderService) IssueOrder(ctx context.Context, email string) (string, error) {
	orderNumber, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	docID, err := s.orders.Create(ctx, &models.Order{OrderNumber: orderNumber, Email: email, IsUsed: false})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	body, err := mail.OrderBody(orderNumber)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	if err := s.notifier.Send(ctx, email, mail.OrderSubject, body); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	slog.Info("Order confirmation sent.", "email", email, "orderId", docID)
	return orderNumber, nil
}

// LatestOrderCode returns the newest unused order number for email.
func (s *OrderService) LatestOrderCode(ctx context.Context, email string) models.LatestOrderResponse {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.LatestOrderResponse{Message: "Missing email."}
	}
	o, err := s.orders.LatestUnused(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.LatestOrderResponse{Message: "No unused order found."}
		}
		slog.Error("Error in getLatestOrderCode", "error", err)
		return models.LatestOrderResponse{Message: "Server error."}
	}
	return models.LatestOrderResponse{Success: true, OrderCode: o.OrderNumber, FullOrder: o.OrderNumber}
}

func customerEmail(session *stripe.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	if e := session.Metadata["email"]; e != "" {
		return e
	}
	return "unknown"
}
