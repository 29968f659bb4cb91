package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/songreaktor/functions/internal/models"
)

type thumbnailer interface {
	Process(ctx context.Context, e models.GCSEvent) error
}

// CoverUploaded handles storage object finalized events. Errors are returned
// so that transient storage failures are retried.
func CoverUploaded(svc thumbnailer) func(context.Context, cloudevents.Event) error {
	return func(ctx context.Context, e cloudevents.Event) error {
		var gcsEvent models.GCSEvent
		if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
			slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		return svc.Process(ctx, gcsEvent)
	}
}
