package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/songreaktor/functions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, o *models.Order) (string, error) {
	args := m.Called(ctx, o)
	return args.String(0), args.Error(1)
}
func (m *mockOrderStore) LatestUnused(ctx context.Context, email string) (*models.Order, error) {
	args := m.Called(ctx, email)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

type mockWebhookVerifier struct{ mock.Mock }

func (m *mockWebhookVerifier) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(stripe.Event), args.Error(1)
}

func checkoutEvent(raw string) stripe.Event {
	return stripe.Event{ID: "evt_1", Type: "checkout.session.completed", Data: &stripe.EventData{Raw: []byte(raw)}}
}

func newOrders() (*OrderService, *mockOrderStore, *mockWebhookVerifier, *mockNotifier) {
	store, wv, n := &mockOrderStore{}, &mockWebhookVerifier{}, &mockNotifier{}
	svc := NewOrderService(store, wv, n)
	svc.newCode = func() (string, error) { return "654321", nil }
	return svc, store, wv, n
}

func orderFor(email string) interface{} {
	return mock.MatchedBy(func(o *models.Order) bool {
		return o.Email == email && o.OrderNumber == "654321" && !o.IsUsed
	})
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc, store, wv, _ := newOrders()
	wv.On("ConstructEvent", mock.Anything, "bad").Return(stripe.Event{}, errors.New("signature mismatch"))

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	svc, store, wv, _ := newOrders()
	wv.On("ConstructEvent", mock.Anything, "sig").Return(stripe.Event{Type: "payment_intent.created"}, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleWebhook_IssuesOrderToCustomerEmail(t *testing.T) {
	svc, store, wv, n := newOrders()
	wv.On("ConstructEvent", mock.Anything, "sig").Return(checkoutEvent(`{"id":"cs_1","customer_details":{"email":"buyer@x.com"},"metadata":{"email":"meta@x.com"}}`), nil)
	store.On("Create", mock.Anything, orderFor("buyer@x.com")).Return("01HZX", nil)
	n.On("Send", mock.Anything, "buyer@x.com", mock.Anything, mock.MatchedBy(func(b string) bool {
		return strings.Contains(b, "654321")
	})).Return(nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	store.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestHandleWebhook_EmailFallbacks(t *testing.T) {
	for name, tc := range map[string]struct{ raw, want string }{
		"metadata": {`{"id":"cs_1","metadata":{"email":"meta@x.com"}}`, "meta@x.com"},
		"unknown":  {`{"id":"cs_1"}`, "unknown"},
	} {
		t.Run(name, func(t *testing.T) {
			svc, store, wv, n := newOrders()
			wv.On("ConstructEvent", mock.Anything, "sig").Return(checkoutEvent(tc.raw), nil)
			store.On("Create", mock.Anything, orderFor(tc.want)).Return("01HZX", nil)
			n.On("Send", mock.Anything, tc.want, mock.Anything, mock.Anything).Return(nil)

			require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
			store.AssertExpectations(t)
		})
	}
}

func TestHandleWebhook_StoreFailure(t *testing.T) {
	svc, store, wv, n := newOrders()
	wv.On("ConstructEvent", mock.Anything, "sig").Return(checkoutEvent(`{"id":"cs_1"}`), nil)
	store.On("Create", mock.Anything, mock.Anything).Return("", errors.New("unavailable"))

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.True(t, errors.Is(err, models.ErrDependency))
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLatestOrderCode(t *testing.T) {
	svc, store, _, _ := newOrders()
	store.On("LatestUnused", mock.Anything, "a@b.com").Return(&models.Order{OrderNumber: "111222"}, nil)
	store.On("LatestUnused", mock.Anything, "none@b.com").Return(nil, models.ErrNotFound)
	store.On("LatestUnused", mock.Anything, "err@b.com").Return(nil, errors.New("index missing"))

	assert.Equal(t, models.LatestOrderResponse{Success: true, OrderCode: "111222", FullOrder: "111222"}, svc.LatestOrderCode(context.Background(), " a@b.com "))
	assert.Equal(t, models.LatestOrderResponse{Message: "No unused order found."}, svc.LatestOrderCode(context.Background(), "none@b.com"))
	assert.Equal(t, models.LatestOrderResponse{Message: "Server error."}, svc.LatestOrderCode(context.Background(), "err@b.com"))
	assert.Equal(t, models.LatestOrderResponse{Message: "Missing email."}, svc.LatestOrderCode(context.Background(), "  "))
}
