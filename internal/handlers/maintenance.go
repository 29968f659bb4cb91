package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/songreaktor/functions/internal/models"
)

type avgRemover interface {
	RemoveAvgFromUploads(ctx context.Context, confirm string) (*models.CleanupResponse, error)
}

const safetyCheckMessage = `Safety check: add ?confirm=YES to the URL (GET) or send { "confirm": "YES" } in POST body.`

// RemoveAvgFromUploads runs the avg_score_percent cleanup over HTTP.
func RemoveAvgFromUploads(svc avgRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirm := r.URL.Query().Get("confirm")
		if r.Method == http.MethodPost {
			var req models.CleanupRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				slog.Warn("Could not decode cleanup request", "error", err)
			}
			confirm = req.Confirm
		}

		res, err := svc.RemoveAvgFromUploads(r.Context(), confirm)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				http.Error(w, safetyCheckMessage, http.StatusBadRequest)
				return
			}
			http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// RemoveAvgFromUploadsCallable is the callable variant of RemoveAvgFromUploads.
func RemoveAvgFromUploadsCallable(svc avgRemover) http.HandlerFunc {
	return Callable(func(r *http.Request, req models.CleanupRequest) (*models.CleanupResponse, error) {
		res, err := svc.RemoveAvgFromUploads(r.Context(), req.Confirm)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				return nil, newCallableError(StatusFailedPrecondition, "Send { confirm: 'YES' } to run.")
			}
			return nil, err
		}
		return res, nil
	})
}
