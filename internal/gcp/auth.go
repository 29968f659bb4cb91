package gcp

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// TokenVerifier checks Firebase ID tokens sent by the app with callable requests.
type TokenVerifier struct {
	client *auth.Client
}

// NewTokenVerifier creates a verifier backed by the Firebase Auth admin client.
func NewTokenVerifier(ctx context.Context, projectID string) (*TokenVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return &TokenVerifier{client: client}, nil
}

// VerifiedEmail verifies idToken and returns the email claim, which may be
// empty for accounts without an email.
func (v *TokenVerifier) VerifiedEmail(ctx context.Context, idToken string) (string, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	email, _ := tok.Claims["email"].(string)
	return email, nil
}
