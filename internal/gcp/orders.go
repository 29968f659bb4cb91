package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
	"github.com/songreaktor/functions/internal/pkg/id"
)

// OrderRepo stores upload credits issued after checkout.
type OrderRepo struct {
	client *firestore.Client
}

func NewOrderRepo(client *firestore.Client) *OrderRepo {
	return &OrderRepo{client: client}
}

// Create stores o under a new ULID and returns the document id.
func (r *OrderRepo) Create(ctx context.Context, o *models.Order) (string, error) {
	docID := id.New()
	if _, err := r.client.Collection(models.OrdersCollection).Doc(docID).Create(ctx, o); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return docID, nil
}

// LatestUnused returns the most recently created unused order for email.
func (r *OrderRepo) LatestUnused(ctx context.Context, email string) (*models.Order, error) {
	docs, err := r.client.Collection(models.OrdersCollection).
		Where("email", "==", email).
		Where("is_used", "==", false).
		OrderBy("created_at", firestore.Desc).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query latest order: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("unused order for %s: %w", email, models.ErrNotFound)
	}
	var o models.Order
	if err := docs[0].DataTo(&o); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", docs[0].Ref.ID, err)
	}
	return &o, nil
}
