package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
)

type ZipRepo struct {
	client *firestore.Client
}

func NewZipRepo(client *firestore.Client) *ZipRepo {
	return &ZipRepo{client: client}
}

func (r *ZipRepo) Get(ctx context.Context, zip string) (*models.ZipLookup, error) {
	snap, err := r.client.Collection(models.ZipLookupCollection).Doc(zip).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("zip %s: %w", zip, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get zip %s: %w", zip, err)
	}
	var z models.ZipLookup
	if err := snap.DataTo(&z); err != nil {
		return nil, fmt.Errorf("decode zip %s: %w", zip, err)
	}
	return &z, nil
}
