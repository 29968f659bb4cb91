package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/songreaktor/functions/internal/models"
)

// maxWebhookBytes bounds the webhook body, as Stripe recommends.
const maxWebhookBytes = 65536

type webhookHandler interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type latestOrders interface {
	LatestOrderCode(ctx context.Context, email string) models.LatestOrderResponse
}

type checkoutCreator interface {
	Create(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error)
}

// StripeWebhook verifies and processes payment provider webhooks.
func StripeWebhook(svc webhookHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
		if err != nil || len(payload) == 0 {
			http.Error(w, "Missing rawBody.", http.StatusBadRequest)
			return
		}

		if err := svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			if errors.Is(err, models.ErrValidation) {
				slog.Warn("Rejected webhook", "error", err)
				http.Error(w, "Webhook Error: "+err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Internal Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, models.WebhookAck{Received: true})
	}
}

func LatestOrderCode(svc latestOrders) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.LatestOrderRequest) (models.LatestOrderResponse, error) {
		return svc.LatestOrderCode(r.Context(), req.Email), nil
	})
}

func CreateCheckoutSession(svc checkoutCreator) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
		res, err := svc.Create(r.Context(), req)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				return nil, newCallableError(StatusInvalidArgument, "Missing email or orderNumber")
			}
			return nil, newCallableError(StatusInternal, "Stripe session creation failed")
		}
		return res, nil
	})
}
