package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
)

// MarkerRepo writes per-user "has reacted" markers.
type MarkerRepo struct {
	client *firestore.Client
}

func NewMarkerRepo(client *firestore.Client) *MarkerRepo {
	return &MarkerRepo{client: client}
}

// MarkReacted merge-writes users/{user}/reacted/{order}; repeating it is harmless.
func (r *MarkerRepo) MarkReacted(ctx context.Context, user, order string) error {
	if err := checkDocID(user); err != nil {
		return fmt.Errorf("marker user: %w", err)
	}
	if err := checkDocID(order); err != nil {
		return fmt.Errorf("marker order: %w", err)
	}
	ref := r.client.Collection(models.UsersCollection).Doc(user).Collection(models.ReactedSubcollection).Doc(order)
	_, err := ref.Set(ctx, map[string]interface{}{
		"reacted": true,
		"at":      firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("mark %s reacted to %s: %w", user, order, err)
	}
	return nil
}

// checkDocID rejects values Firestore would not accept as a single document
// id, including ones with a slash that would add path segments.
func checkDocID(id string) error {
	switch {
	case id == "", id == ".", id == "..":
		return fmt.Errorf("%w: invalid document id %q", models.ErrValidation, id)
	case strings.Contains(id, "/"):
		return fmt.Errorf("%w: document id %q contains a slash", models.ErrValidation, id)
	case strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"):
		return fmt.Errorf("%w: document id %q is reserved", models.ErrValidation, id)
	}
	return nil
}
