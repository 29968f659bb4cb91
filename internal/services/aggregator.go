package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/songreaktor/functions/internal/models"
)

// maxEmojiScore is the top of the emoji rating scale (0-9).
const maxEmojiScore = 9.0

// ReaktionStore reads rating groups and writes derived fields back.
type ReaktionStore interface {
	ListByGroup(ctx context.Context, key models.GroupKey) ([]models.Reaktion, error)
	UpdateDerived(ctx context.Context, path string, d models.DerivedFields) error
}

// CoverSource resolves the cover image of the studio upload matching a group.
type CoverSource interface {
	CoverImageURL(ctx context.Context, key models.GroupKey) (string, error)
}

// ReactedMarker records that a user has reacted to an order.
type ReactedMarker interface {
	MarkReacted(ctx context.Context, user, order string) error
}

// ReaktionChange is a single write to a reaktion document. Before is nil on
// create and After is nil on delete.
type ReaktionChange struct {
	Before *models.Reaktion
	After  *models.Reaktion
}

// RecomputeResult describes what a recomputation did.
type RecomputeResult struct {
	Key             models.GroupKey
	AvgScorePercent float64
	// Skipped is set when there was nothing to compute: a missing group key
	// or an empty group.
	Skipped bool
	Written models.DerivedFields
	Marked  bool
	Err     error
}

// AggregatorService keeps the derived fields of reaktions current.
type AggregatorService struct {
	reaktions ReaktionStore
	covers    CoverSource
	markers   ReactedMarker
}

func NewAggregatorService(reaktions ReaktionStore, covers CoverSource, markers ReactedMarker) *AggregatorService {
	return &AggregatorService{reaktions: reaktions, covers: covers, markers: markers}
}

// Recompute recalculates the group average for the written reaktion, copies
// the studio cover onto it and, on create, stamps the user's reacted marker.
//
// The reaktion is only updated with fields whose value actually changes. That
// write retriggers this function, and the second run finds nothing to change,
// which is what stops the loop.
//
// Errors never escape: they are logged and reported in the result only. A
// failed run is repaired by the next write to the same group.
func (s *AggregatorService) Recompute(ctx context.Context, change ReaktionChange) RecomputeResult {
	key, ok := resolveGroupKey(change)
	res := RecomputeResult{Key: key}
	if !ok {
		slog.Info("Missing one of song_name, artist_name or order_number. Skipping.")
		res.Skipped = true
		return res
	}
	logCtx := slog.With("songName", key.SongName, "artistName", key.ArtistName, "orderNumber", key.Order())

	group, err := s.reaktions.ListByGroup(ctx, key)
	if err != nil {
		return s.fail(logCtx, res, "Failed to load reaktion group", err)
	}
	if len(group) == 0 {
		logCtx.Info("Reaktion group is empty. Nothing to recompute.")
		res.Skipped = true
		return res
	}
	res.AvgScorePercent = averagePercent(group)

	cover, err := s.covers.CoverImageURL(ctx, key)
	if err != nil {
		return s.fail(logCtx, res, "Failed to resolve cover image", err)
	}

	if change.After != nil {
		delta := derivedDelta(change.After, res.AvgScorePercent, cover)
		if !delta.Empty() {
			if err := s.reaktions.UpdateDerived(ctx, change.After.Path, delta); err != nil {
				return s.fail(logCtx, res, "Failed to update derived fields", err)
			}
			res.Written = delta
		}
	}

	if change.Before == nil && change.After != nil {
		if user := change.After.UserKey(); user != "" {
			if err := s.markers.MarkReacted(ctx, user, key.Order()); err != nil {
				return s.fail(logCtx, res, "Failed to write reacted marker", err)
			}
			res.Marked = true
		}
	}

	logCtx.Info("Average computed.", "avgScorePercent", res.AvgScorePercent, "updated", !res.Written.Empty(), "marked", res.Marked)
	return res
}

func (s *AggregatorService) fail(logCtx *slog.Logger, res RecomputeResult, msg string, err error) RecomputeResult {
	logCtx.Error(msg, "error", err)
	res.Err = err
	return res
}

// resolveGroupKey takes each key field from the after-state, falling back to
// the before-state so deletes can still be grouped.
func resolveGroupKey(c ReaktionChange) (models.GroupKey, bool) {
	var key models.GroupKey
	for _, r := range []*models.Reaktion{c.After, c.Before} {
		if r == nil {
			continue
		}
		if key.SongName == "" {
			key.SongName = r.SongName
		}
		if key.ArtistName == "" {
			key.ArtistName = r.ArtistName
		}
		if !orderPresent(key.OrderNumber) {
			key.OrderNumber = r.OrderNumber
		}
	}
	ok := key.SongName != "" && key.ArtistName != "" && orderPresent(key.OrderNumber)
	return key, ok
}

func orderPresent(v interface{}) bool {
	switch n := v.(type) {
	case nil:
		return false
	case string:
		return n != ""
	case int64:
		return n != 0
	case float64:
		return n != 0
	}
	return true
}

// averagePercent is the mean emoji score as a percentage of the maximum,
// rounded to one decimal place.
func averagePercent(group []models.Reaktion) float64 {
	var sum float64
	for _, r := range group {
		sum += r.EmojiScore
	}
	mean := sum / float64(len(group))
	return math.Round(mean/maxEmojiScore*100*10) / 10
}

// derivedDelta returns the fields of current that differ from the computed
// values. An empty cover never overwrites a stored one.
func derivedDelta(current *models.Reaktion, avg float64, cover string) models.DerivedFields {
	var d models.DerivedFields
	if current.AvgScorePercent == nil || *current.AvgScorePercent != avg {
		d.AvgScorePercent = &avg
	}
	if cover != "" && (current.CoverImageURL == nil || *current.CoverImageURL != cover) {
		d.CoverImageURL = &cover
	}
	return d
}
