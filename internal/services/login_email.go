package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/songreaktor/functions/internal/mail"
	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/pkg/validate"
)

// LoginEmailService mails a code the client generated itself.
type LoginEmailService struct {
	notifier mail.Notifier
}

func NewLoginEmailService(notifier mail.Notifier) *LoginEmailService {
	return &LoginEmailService{notifier: notifier}
}

func (s *LoginEmailService) Send(ctx context.Context, req models.LoginCodeRequest) error {
	if err := validate.Struct(req); err != nil {
		slog.Error("Missing email or code", "error", err)
		return fmt.Errorf("%w: missing email or code", models.ErrValidation)
	}
	if req.Name == "" {
		req.Name = "Guest"
	}
	body, err := mail.LoginCodeBody(req.Name, req.Code)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	if err := s.notifier.Send(ctx, req.Email, mail.LoginCodeSubject, body); err != nil {
		slog.Error("SendGrid error", "error", err, "email", req.Email)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	slog.Info("Login code email sent.", "email", req.Email)
	return nil
}
