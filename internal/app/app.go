// Package app builds clients and services on demand and hands them to the
// function handlers. Each client is created at most once per instance, and
// only when a service that needs it is first requested.
package app

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/songreaktor/functions/internal/config"
	"github.com/songreaktor/functions/internal/gcp"
	"github.com/songreaktor/functions/internal/mail"
	"github.com/songreaktor/functions/internal/payments"
	"github.com/songreaktor/functions/internal/services"
)

// App is the composition root shared by all functions in an instance.
type App struct {
	Config *config.Config

	ctx context.Context

	firestoreOnce   sync.Once
	firestoreClient *firestore.Client
	firestoreErr    error

	storageOnce   sync.Once
	storageClient *storage.Client
	storageErr    error

	tokensOnce sync.Once
	tokens     *gcp.TokenVerifier
	tokensErr  error
}

// New loads the configuration. No client is created yet.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &App{Config: cfg, ctx: ctx}, nil
}

// Firestore returns the shared Firestore client.
func (a *App) Firestore() (*firestore.Client, error) {
	a.firestoreOnce.Do(func() {
		a.firestoreClient, a.firestoreErr = gcp.NewFirestoreClient(a.ctx, a.Config.ProjectID)
	})
	return a.firestoreClient, a.firestoreErr
}

// Storage returns the shared Cloud Storage client.
func (a *App) Storage() (*storage.Client, error) {
	a.storageOnce.Do(func() {
		a.storageClient, a.storageErr = storage.NewClient(a.ctx)
		if a.storageErr != nil {
			a.storageErr = fmt.Errorf("failed to create storage client: %w", a.storageErr)
		}
	})
	return a.storageClient, a.storageErr
}

// Tokens returns the Firebase ID token verifier.
func (a *App) Tokens() (*gcp.TokenVerifier, error) {
	a.tokensOnce.Do(func() {
		a.tokens, a.tokensErr = gcp.NewTokenVerifier(a.ctx, a.Config.ProjectID)
	})
	return a.tokens, a.tokensErr
}

func (a *App) smtpNotifier() *mail.SMTPNotifier {
	return mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     a.Config.SMTPHost,
		Port:     a.Config.SMTPPort,
		From:     a.Config.MailFrom,
		Username: a.Config.SMTPUsername,
		Password: a.Config.SMTPPassword,
	})
}

func (a *App) stripe() *payments.Stripe {
	return payments.NewStripe(a.Config.StripeSecretKey, a.Config.StripeWebhookSecret)
}

func (a *App) Verification() (*services.VerificationService, error) {
	fs, err := a.Firestore()
	if err != nil {
		return nil, err
	}
	return services.NewVerificationService(gcp.NewVerificationRepo(fs), a.smtpNotifier()), nil
}

func (a *App) Aggregator() (*services.AggregatorService, error) {
	fs, err := a.Firestore()
	if err != nil {
		return nil, err
	}
	return services.NewAggregatorService(gcp.NewReaktionRepo(fs), gcp.NewStudioUploadRepo(fs), gcp.NewMarkerRepo(fs)), nil
}

func (a *App) Orders() (*services.OrderService, error) {
	fs, err := a.Firestore()
	if err != nil {
		return nil, err
	}
	return services.NewOrderService(gcp.NewOrderRepo(fs), a.stripe(), a.smtpNotifier()), nil
}

// Checkout needs no Google client.
func (a *App) Checkout() *services.CheckoutService {
	return services.NewCheckoutService(a.stripe(), services.CheckoutConfig{
		UnitAmount: a.Config.CheckoutUnitAmount,
		SuccessURL: a.Config.CheckoutSuccessURL,
		CancelURL:  a.Config.CheckoutCancelURL,
	})
}

func (a *App) Lookups() (*services.LookupService, error) {
	fs, err := a.Firestore()
	if err != nil {
		return nil, err
	}
	return services.NewLookupService(gcp.NewZipRepo(fs), gcp.NewReaktionRepo(fs), gcp.NewStudioUploadRepo(fs)), nil
}

func (a *App) LoginEmail() *services.LoginEmailService {
	return services.NewLoginEmailService(mail.NewSendGridNotifier(a.Config.SendGridAPIKey, a.Config.MailFrom, a.Config.MailFromName))
}

func (a *App) Maintenance() (*services.MaintenanceService, error) {
	fs, err := a.Firestore()
	if err != nil {
		return nil, err
	}
	return services.NewMaintenanceService(gcp.NewStudioUploadRepo(fs), a.Config.CleanupBatchSize), nil
}

func (a *App) Thumbnails() (*services.ThumbnailService, error) {
	sc, err := a.Storage()
	if err != nil {
		return nil, err
	}
	return services.NewThumbnailService(sc, services.ThumbnailConfig{
		Bucket:  a.Config.ThumbnailBucket,
		MaxEdge: a.Config.ThumbnailMaxEdge,
	}), nil
}

var (
	shared    *App
	sharedErr error
	once      sync.Once
)

// Shared returns the instance-wide App, loading configuration on first use.
// A configuration failure is remembered and returned on every call.
func Shared() (*App, error) {
	once.Do(func() {
		shared, sharedErr = New(context.Background())
	})
	return shared, sharedErr
}
