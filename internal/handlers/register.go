package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/go-chi/cors"
	"github.com/songreaktor/functions/internal/app"
)

// Provider returns the instance-wide dependencies. app.Shared in production.
type Provider func() (*app.App, error)

type eventFunc = func(context.Context, cloudevents.Event) error

// RegisterVerification registers the email verification callables.
func RegisterVerification(p Provider) {
	functions.HTTP("sendVerificationCode", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Verification()
		if err != nil {
			return nil, err
		}
		return SendVerificationCode(svc), nil
	}))
	functions.HTTP("verifyCodeV2", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Verification()
		if err != nil {
			return nil, err
		}
		return VerifyCode(svc), nil
	}))
}

// RegisterAggregator registers the reaktions/{id} write trigger.
func RegisterAggregator(p Provider) {
	functions.CloudEvent("onReaktionWrite", lazyEvent(p, func(a *app.App) (eventFunc, error) {
		svc, err := a.Aggregator()
		if err != nil {
			return nil, err
		}
		return ReaktionWritten(svc), nil
	}))
}

// RegisterOrders registers the payment and order functions. The webhook is
// called server to server and gets no CORS handling.
func RegisterOrders(p Provider) {
	functions.HTTP("stripeWebhook", lazyHTTP(p, false, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Orders()
		if err != nil {
			return nil, err
		}
		return StripeWebhook(svc), nil
	}))
	functions.HTTP("createCheckoutSession", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		return CreateCheckoutSession(a.Checkout()), nil
	}))
	functions.HTTP("getLatestOrderCode", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Orders()
		if err != nil {
			return nil, err
		}
		return LatestOrderCode(svc), nil
	}))
}

func RegisterLookups(p Provider) {
	functions.HTTP("getCityStateByZip", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Lookups()
		if err != nil {
			return nil, err
		}
		return CityStateByZip(svc), nil
	}))
	functions.HTTP("getMyStudioOrders", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Lookups()
		if err != nil {
			return nil, err
		}
		tokens, err := a.Tokens()
		if err != nil {
			return nil, err
		}
		return MyStudioOrders(svc, tokens), nil
	}))
}

func RegisterLoginEmail(p Provider) {
	functions.HTTP("sendVerificationEmailV2", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		return SendLoginEmail(a.LoginEmail()), nil
	}))
}

func RegisterMaintenance(p Provider) {
	functions.HTTP("removeAvgFromUploads", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Maintenance()
		if err != nil {
			return nil, err
		}
		return RemoveAvgFromUploads(svc), nil
	}))
	functions.HTTP("removeAvgFromUploadsCallable", lazyHTTP(p, true, func(a *app.App) (http.HandlerFunc, error) {
		svc, err := a.Maintenance()
		if err != nil {
			return nil, err
		}
		return RemoveAvgFromUploadsCallable(svc), nil
	}))
}

func RegisterThumbnails(p Provider) {
	functions.CloudEvent("generateCoverThumbnail", lazyEvent(p, func(a *app.App) (eventFunc, error) {
		svc, err := a.Thumbnails()
		if err != nil {
			return nil, err
		}
		return CoverUploaded(svc), nil
	}))
}

// RegisterAll registers every function, for running them all in one process.
func RegisterAll(p Provider) {
	RegisterVerification(p)
	RegisterAggregator(p)
	RegisterOrders(p)
	RegisterLookups(p)
	RegisterLoginEmail(p)
	RegisterMaintenance(p)
	RegisterThumbnails(p)
}

// lazyHTTP defers building the handler until the first request. The App only
// creates the clients the handler's service asks for.
func lazyHTTP(p Provider, withCORS bool, build func(*app.App) (http.HandlerFunc, error)) http.HandlerFunc {
	var (
		once    sync.Once
		handler http.Handler
		initErr error
	)
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			var a *app.App
			if a, initErr = p(); initErr != nil {
				return
			}
			var h http.HandlerFunc
			if h, initErr = build(a); initErr != nil {
				return
			}
			handler = h
			if withCORS {
				handler = corsHandler(a.Config.AllowedOrigins)(handler)
			}
		})
		if initErr != nil {
			slog.Error("Critical error during function initialization", "error", initErr)
			http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
			return
		}
		handler.ServeHTTP(w, r)
	}
}

func lazyEvent(p Provider, build func(*app.App) (eventFunc, error)) eventFunc {
	var (
		once    sync.Once
		handler eventFunc
		initErr error
	)
	return func(ctx context.Context, e cloudevents.Event) error {
		once.Do(func() {
			var a *app.App
			if a, initErr = p(); initErr != nil {
				return
			}
			handler, initErr = build(a)
		})
		if initErr != nil {
			slog.Error("Critical error during function initialization", "error", initErr)
			return initErr
		}
		return handler(ctx, e)
	}
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Firebase-Instance-ID-Token", "X-Firebase-AppCheck"},
		MaxAge:         3600,
	})
}
