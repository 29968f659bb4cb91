package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/songreaktor/functions/internal/models"
	"google.golang.org/api/iterator"
)

// StudioUploadRepo reads studio uploads and runs maintenance over them.
type StudioUploadRepo struct {
	client *firestore.Client
}

func NewStudioUploadRepo(client *firestore.Client) *StudioUploadRepo {
	return &StudioUploadRepo{client: client}
}

// CoverImageURL returns the cover of the first upload matching key, or "" if
// there is none. With several matches the one returned first wins.
func (r *StudioUploadRepo) CoverImageURL(ctx context.Context, key models.GroupKey) (string, error) {
	docs, err := groupQuery(r.client, models.StudioUploadsCollection, key).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return "", fmt.Errorf("query studio uploads for %s: %w", key, err)
	}
	if len(docs) == 0 {
		return "", nil
	}
	cover, _ := docs[0].Data()["cover_image_url"].(string)
	return cover, nil
}

// List returns all uploads, optionally restricted to filter.Field == filter.Equals.
// Each item carries the document id under "id" followed by the document fields.
func (r *StudioUploadRepo) List(ctx context.Context, filter *models.StudioFilter) ([]map[string]interface{}, error) {
	q := r.client.Collection(models.StudioUploadsCollection).Query
	if filter != nil && filter.Field != "" && filter.Equals != nil {
		q = q.Where(filter.Field, "==", filter.Equals)
	}
	it := q.Documents(ctx)
	defer it.Stop()

	var items []map[string]interface{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list studio uploads: %w", err)
		}
		item := map[string]interface{}{"id": snap.Ref.ID}
		for k, v := range snap.Data() {
			item[k] = v
		}
		items = append(items, item)
	}
	return items, nil
}

// StripAvgScore deletes avg_score_percent from every upload that still has it,
// batchSize documents at a time, and returns how many documents were updated.
func (r *StudioUploadRepo) StripAvgScore(ctx context.Context, batchSize int) (int, error) {
	total := 0
	for {
		docs, err := r.client.Collection(models.StudioUploadsCollection).
			Where("avg_score_percent", "!=", nil).
			Limit(batchSize).
			Documents(ctx).GetAll()
		if err != nil {
			return total, fmt.Errorf("query uploads with avg_score_percent: %w", err)
		}
		if len(docs) == 0 {
			break
		}

		bw := r.client.BulkWriter(ctx)
		jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
		for _, d := range docs {
			job, err := bw.Update(d.Ref, []firestore.Update{{Path: "avg_score_percent", Value: firestore.Delete}})
			if err != nil {
				bw.End()
				return total, fmt.Errorf("enqueue update for %s: %w", d.Ref.ID, err)
			}
			jobs = append(jobs, job)
		}
		bw.End()
		for _, job := range jobs {
			if _, err := job.Results(); err != nil {
				return total, fmt.Errorf("strip avg_score_percent: %w", err)
			}
		}
		total += len(docs)

		if len(docs) < batchSize {
			break
		}
	}
	return total, nil
}
