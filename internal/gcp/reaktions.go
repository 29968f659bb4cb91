package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
	"google.golang.org/api/iterator"
)

// ReaktionRepo reads rating groups and writes their derived fields.
type ReaktionRepo struct {
	client *firestore.Client
}

func NewReaktionRepo(client *firestore.Client) *ReaktionRepo {
	return &ReaktionRepo{client: client}
}

func groupQuery(client *firestore.Client, collection string, key models.GroupKey) firestore.Query {
	return client.Collection(collection).
		Where("song_name", "==", key.SongName).
		Where("artist_name", "==", key.ArtistName).
		Where("order_number", "==", key.OrderNumber)
}

// ListByGroup returns every Reaktion sharing the key's song, artist and order.
func (r *ReaktionRepo) ListByGroup(ctx context.Context, key models.GroupKey) ([]models.Reaktion, error) {
	docs, err := groupQuery(r.client, models.ReaktionsCollection, key).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query reaktions for %s: %w", key, err)
	}
	out := make([]models.Reaktion, 0, len(docs))
	for _, d := range docs {
		out = append(out, reaktionFromData(models.ReaktionsCollection+"/"+d.Ref.ID, d.Data()))
	}
	return out, nil
}

// UpdateDerived writes only the non-nil fields of d to the document at path.
func (r *ReaktionRepo) UpdateDerived(ctx context.Context, path string, d models.DerivedFields) error {
	var updates []firestore.Update
	if d.AvgScorePercent != nil {
		updates = append(updates, firestore.Update{Path: "avg_score_percent", Value: *d.AvgScorePercent})
	}
	if d.CoverImageURL != nil {
		updates = append(updates, firestore.Update{Path: "cover_image_url", Value: *d.CoverImageURL})
	}
	if len(updates) == 0 {
		return nil
	}
	if _, err := r.client.Doc(path).Update(ctx, updates); err != nil {
		return fmt.Errorf("update derived fields on %s: %w", path, err)
	}
	return nil
}

// OrderNumbersByUser returns the order numbers, as strings, that the user has
// reacted to.
func (r *ReaktionRepo) OrderNumbersByUser(ctx context.Context, email string) ([]string, error) {
	it := r.client.Collection(models.ReaktionsCollection).
		Where("user_email", "==", email).
		Select("order_number").
		Documents(ctx)
	defer it.Stop()

	var orders []string
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query reaktions by user: %w", err)
		}
		v, err := snap.DataAt("order_number")
		if err != nil || v == nil {
			continue
		}
		orders = append(orders, models.OrderString(v))
	}
	return orders, nil
}
