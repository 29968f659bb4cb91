package handlers

import (
	"context"
	"log/slog"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/services"
)

type recomputer interface {
	Recompute(ctx context.Context, change services.ReaktionChange) services.RecomputeResult
}

// ReaktionWritten handles Firestore write events on reaktions/{id}. It always
// returns nil: a failed recomputation must not make the platform retry, the
// next write to the group recomputes anyway.
func ReaktionWritten(svc recomputer) func(context.Context, cloudevents.Event) error {
	return func(ctx context.Context, e cloudevents.Event) error {
		logCtx := slog.With("eventId", e.ID(), "subject", e.Subject())

		ev, err := models.ParseDocumentEvent(e.DataContentType(), e.Data())
		if err != nil {
			logCtx.Error("Failed to unmarshal event data", "error", err, "dataContentType", e.DataContentType())
			return nil
		}

		doc := ev.GetValue()
		if doc == nil {
			doc = ev.GetOldValue()
		}
		logCtx.Info("Reaktion written.",
			"documentId", models.DocumentID(doc),
			"updatedFields", ev.GetUpdateMask().GetFieldPaths())

		svc.Recompute(ctx, services.ReaktionChange{
			Before: models.ReaktionFromDocument(ev.OldValue),
			After:  models.ReaktionFromDocument(ev.Value),
		})
		return nil
	}
}
