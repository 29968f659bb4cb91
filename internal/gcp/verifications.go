package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
)

// VerificationRepo stores pending verification codes, one document per
// (email, device) pair.
type VerificationRepo struct {
	client *firestore.Client
}

func NewVerificationRepo(client *firestore.Client) *VerificationRepo {
	return &VerificationRepo{client: client}
}

// Put fully overwrites the pending verification for the pair.
func (r *VerificationRepo) Put(ctx context.Context, v *models.PendingVerification) error {
	id := models.PendingVerificationID(v.Email, v.DeviceID)
	if _, err := r.client.Collection(models.PendingVerificationsCollection).Doc(id).Set(ctx, v); err != nil {
		return fmt.Errorf("set pending verification %s: %w", id, err)
	}
	return nil
}

func (r *VerificationRepo) Get(ctx context.Context, id string) (*models.PendingVerification, error) {
	snap, err := r.client.Collection(models.PendingVerificationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("pending verification %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get pending verification %s: %w", id, err)
	}
	var v models.PendingVerification
	if err := snap.DataTo(&v); err != nil {
		return nil, fmt.Errorf("decode pending verification %s: %w", id, err)
	}
	return &v, nil
}

func (r *VerificationRepo) MarkVerified(ctx context.Context, id string) error {
	_, err := r.client.Collection(models.PendingVerificationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isVerified", Value: true},
	})
	if err != nil {
		return fmt.Errorf("mark %s verified: %w", id, err)
	}
	return nil
}
