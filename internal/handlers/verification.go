package handlers

import (
	"context"
	"net/http"

	"github.com/songreaktor/functions/internal/models"
)

type codeIssuer interface {
	Issue(ctx context.Context, req models.IssueCodeRequest) error
}

type codeVerifier interface {
	Verify(ctx context.Context, req models.VerifyCodeRequest) error
}

// SendVerificationCode answers true once the code is stored and mailed, false
// otherwise. The service has already logged why.
func SendVerificationCode(svc codeIssuer) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.IssueCodeRequest) (bool, error) {
		return svc.Issue(r.Context(), req) == nil, nil
	})
}

// VerifyCode answers true for a correct unexpired code. Unknown pairs, wrong
// codes, expired codes and store failures all answer false.
func VerifyCode(svc codeVerifier) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.VerifyCodeRequest) (bool, error) {
		return svc.Verify(r.Context(), req) == nil, nil
	})
}
