package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/songreaktor/functions/internal/mail"
	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/pkg/code"
	"github.com/songreaktor/functions/internal/pkg/validate"
)

const (
	// CodeTTL is how long an issued verification code stays valid.
	CodeTTL         = 10 * time.Minute
	defaultUserType = "onboarding"
)

// VerificationStore persists pending verifications.
type VerificationStore interface {
	Put(ctx context.Context, v *models.PendingVerification) error
	Get(ctx context.Context, id string) (*models.PendingVerification, error)
	MarkVerified(ctx context.Context, id string) error
}

// VerificationService issues and checks one-time codes bound to an
// (email, device) pair.
type VerificationService struct {
	store    VerificationStore
	notifier mail.Notifier
	now      func() time.Time
	newCode  func() (string, error)
}

func NewVerificationService(store VerificationStore, notifier mail.Notifier) *VerificationService {
	return &VerificationService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newCode:  code.SixDigit,
	}
}

// Issue stores a fresh code for the pair, replacing any previous one, and
// emails it. The code is stored before sending, so a failed send can leave an
// undelivered code behind; the user simply requests a new one.
func (s *VerificationService) Issue(ctx context.Context, req models.IssueCodeRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if req.UserType == "" {
		req.UserType = defaultUserType
	}
	logCtx := slog.With("email", req.Email, "deviceId", req.DeviceID)

	c, err := s.newCode()
	if err != nil {
		logCtx.Error("Failed to generate verification code", "error", err)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	pv := &models.PendingVerification{
		Email:      req.Email,
		Code:       c,
		DeviceID:   req.DeviceID,
		IsGuest:    req.IsGuest,
		UserType:   req.UserType,
		IsVerified: false,
		ExpiresAt:  s.now().Add(CodeTTL),
	}
	if err := s.store.Put(ctx, pv); err != nil {
		logCtx.Error("Failed to store pending verification", "error", err)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	body, err := mail.VerificationBody(c)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	if err := s.notifier.Send(ctx, req.Email, mail.VerificationSubject, body); err != nil {
		logCtx.Error("Failed to send verification email", "error", err)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	logCtx.Info("Verification email sent.")
	return nil
}

// Verify checks code against the pending verification for the pair and marks
// it verified. The code is not consumed: it keeps verifying until it expires
// or a new one is issued. A missing record returns ErrNotFound and a wrong or
// expired code ErrCodeRejected; callers must not tell the two apart.
func (s *VerificationService) Verify(ctx context.Context, req models.VerifyCodeRequest) error {
	email := strings.TrimSpace(req.Email)
	deviceID := strings.TrimSpace(req.DeviceID)
	entered := strings.TrimSpace(req.Code)
	id := models.PendingVerificationID(email, deviceID)

	pv, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		slog.Error("Failed to read pending verification", "id", id, "error", err)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	if entered != pv.Code || s.now().After(pv.ExpiresAt) {
		return fmt.Errorf("verification %s: %w", id, models.ErrCodeRejected)
	}

	if err := s.store.MarkVerified(ctx, id); err != nil {
		slog.Error("Failed to mark verification as verified", "id", id, "error", err)
		return fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	return nil
}
