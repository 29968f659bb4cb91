package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/songreaktor/functions/internal/models"
)

type zipResolver interface {
	CityStateByZip(ctx context.Context, zip string) models.ZipResponse
}

type studioOrders interface {
	StudioOrders(ctx context.Context, email string, filter *models.StudioFilter) (*models.StudioOrdersResponse, error)
}

type loginMailer interface {
	Send(ctx context.Context, req models.LoginCodeRequest) error
}

type emailVerifier interface {
	VerifiedEmail(ctx context.Context, idToken string) (string, error)
}

func CityStateByZip(svc zipResolver) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.ZipRequest) (models.ZipResponse, error) {
		return svc.CityStateByZip(r.Context(), req.Zip), nil
	})
}

// MyStudioOrders lists the uploads the caller has not reacted to. The caller
// is the verified ID token's email if a token is sent, else data.email.
func MyStudioOrders(svc studioOrders, tokens emailVerifier) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.StudioOrdersRequest) (*models.StudioOrdersResponse, error) {
		email := strings.TrimSpace(req.Email)
		if token, ok := bearerToken(r); ok {
			verified, err := tokens.VerifiedEmail(r.Context(), token)
			if err != nil {
				slog.Warn("Rejected ID token", "error", err)
				return nil, newCallableError(StatusUnauthenticated, "Unauthenticated")
			}
			if verified != "" {
				email = verified
			}
		}
		if email == "" {
			return nil, newCallableError(StatusUnauthenticated, "Unauthenticated: no user email.")
		}
		return svc.StudioOrders(r.Context(), email, req.StudioFilter)
	})
}

func SendLoginEmail(svc loginMailer) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.LoginCodeRequest) (models.SuccessResponse, error) {
		if err := svc.Send(r.Context(), req); err != nil {
			if errors.Is(err, models.ErrValidation) {
				return models.SuccessResponse{}, newCallableError(StatusInvalidArgument, "Missing email or code")
			}
			return models.SuccessResponse{}, newCallableError(StatusInternal, "Failed to send email.")
		}
		return models.SuccessResponse{Success: true}, nil
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
