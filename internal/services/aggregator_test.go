package services

import (
	"context"
	"errors"
	"testing"

	"github.com/songreaktor/functions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReaktionStore struct{ mock.Mock }

func (m *mockReaktionStore) ListByGroup(ctx context.Context, key models.GroupKey) ([]models.Reaktion, error) {
	args := m.Called(ctx, key)
	rs, _ := args.Get(0).([]models.Reaktion)
	return rs, args.Error(1)
}
func (m *mockReaktionStore) UpdateDerived(ctx context.Context, path string, d models.DerivedFields) error {
	return m.Called(ctx, path, d).Error(0)
}

type mockCoverSource struct{ mock.Mock }

func (m *mockCoverSource) CoverImageURL(ctx context.Context, key models.GroupKey) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockMarker struct{ mock.Mock }

func (m *mockMarker) MarkReacted(ctx context.Context, user, order string) error {
	return m.Called(ctx, user, order).Error(0)
}

// --- helpers ---

var blueKey = models.GroupKey{SongName: "Blue", ArtistName: "Ada", OrderNumber: "123456"}

func reaktion(path string, score float64) models.Reaktion {
	return models.Reaktion{Path: path, SongName: "Blue", ArtistName: "Ada", OrderNumber: "123456", EmojiScore: score}
}

func ptr[T any](v T) *T { return &v }

func avgIs(want float64) interface{} {
	return mock.MatchedBy(func(d models.DerivedFields) bool {
		return d.AvgScorePercent != nil && *d.AvgScorePercent == want
	})
}

func newAggregator() (*AggregatorService, *mockReaktionStore, *mockCoverSource, *mockMarker) {
	rs, cs, mk := &mockReaktionStore{}, &mockCoverSource{}, &mockMarker{}
	return NewAggregatorService(rs, cs, mk), rs, cs, mk
}

// --- tests ---

func TestRecompute_AveragesGroup(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	after := reaktion("reaktions/r3", 9)
	after.UserID = "u1"

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{
		reaktion("reaktions/r1", 5), reaktion("reaktions/r2", 7), after,
	}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("https://cdn/blue.jpg", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r3", mock.MatchedBy(func(d models.DerivedFields) bool {
		return *d.AvgScorePercent == 77.8 && *d.CoverImageURL == "https://cdn/blue.jpg"
	})).Return(nil)
	mk.On("MarkReacted", mock.Anything, "u1", "123456").Return(nil)

	res := svc.Recompute(context.Background(), ReaktionChange{After: &after})

	require.NoError(t, res.Err)
	assert.Equal(t, 77.8, res.AvgScorePercent)
	assert.True(t, res.Marked)
	rs.AssertExpectations(t)
	mk.AssertExpectations(t)
}

func TestRecompute_UpToDateDocumentIsNotWritten(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	before := reaktion("reaktions/r1", 9)
	after := before
	after.AvgScorePercent = ptr(100.0)
	after.CoverImageURL = ptr("https://cdn/blue.jpg")

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("https://cdn/blue.jpg", nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before, After: &after})

	require.NoError(t, res.Err)
	assert.True(t, res.Written.Empty())
	rs.AssertNotCalled(t, "UpdateDerived", mock.Anything, mock.Anything, mock.Anything)
	mk.AssertNotCalled(t, "MarkReacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_WritesOnlyChangedFields(t *testing.T) {
	svc, rs, cs, _ := newAggregator()
	before := reaktion("reaktions/r1", 3)
	after := reaktion("reaktions/r1", 9)
	after.AvgScorePercent = ptr(33.3)
	after.CoverImageURL = ptr("https://cdn/blue.jpg")

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("https://cdn/blue.jpg", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r1", mock.MatchedBy(func(d models.DerivedFields) bool {
		return *d.AvgScorePercent == 100 && d.CoverImageURL == nil
	})).Return(nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before, After: &after})

	require.NoError(t, res.Err)
	rs.AssertExpectations(t)
}

func TestRecompute_EmptyCoverNeverOverwrites(t *testing.T) {
	svc, rs, cs, _ := newAggregator()
	before := reaktion("reaktions/r1", 9)
	after := before
	after.AvgScorePercent = ptr(100.0)
	after.CoverImageURL = ptr("https://cdn/old.jpg")

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("", nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before, After: &after})

	require.NoError(t, res.Err)
	rs.AssertNotCalled(t, "UpdateDerived", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_DeleteOfLastReaktionIsNoop(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	before := reaktion("reaktions/r1", 4)

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{}, nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before})

	require.NoError(t, res.Err)
	assert.True(t, res.Skipped)
	cs.AssertNotCalled(t, "CoverImageURL", mock.Anything, mock.Anything)
	rs.AssertNotCalled(t, "UpdateDerived", mock.Anything, mock.Anything, mock.Anything)
	mk.AssertNotCalled(t, "MarkReacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_DeleteRecomputesWithoutWriting(t *testing.T) {
	svc, rs, cs, _ := newAggregator()
	before := reaktion("reaktions/r1", 4)

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{reaktion("reaktions/r2", 9)}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("https://cdn/blue.jpg", nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before})

	require.NoError(t, res.Err)
	assert.Equal(t, 100.0, res.AvgScorePercent)
	rs.AssertNotCalled(t, "UpdateDerived", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_MissingKeyIsNoop(t *testing.T) {
	svc, rs, _, _ := newAggregator()
	after := models.Reaktion{Path: "reaktions/r1", SongName: "Blue", OrderNumber: "123456", EmojiScore: 5}

	res := svc.Recompute(context.Background(), ReaktionChange{After: &after})

	assert.True(t, res.Skipped)
	require.NoError(t, res.Err)
	rs.AssertNotCalled(t, "ListByGroup", mock.Anything, mock.Anything)
}

func TestRecompute_KeyFallsBackToBeforeState(t *testing.T) {
	svc, rs, cs, _ := newAggregator()
	before := reaktion("reaktions/r1", 5)
	after := models.Reaktion{Path: "reaktions/r1", SongName: "Blue", EmojiScore: 5, AvgScorePercent: ptr(55.6)}

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("", nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before, After: &after})

	require.NoError(t, res.Err)
	assert.Equal(t, blueKey, res.Key)
	rs.AssertNotCalled(t, "UpdateDerived", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_MarkerOnlyOnCreate(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	before := reaktion("reaktions/r1", 5)
	before.UserEmail = "a@b.com"
	after := before
	after.EmojiScore = 7

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r1", avgIs(77.8)).Return(nil)

	res := svc.Recompute(context.Background(), ReaktionChange{Before: &before, After: &after})

	require.NoError(t, res.Err)
	assert.False(t, res.Marked)
	mk.AssertNotCalled(t, "MarkReacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_CreateWithoutUserSkipsMarker(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	after := reaktion("reaktions/r1", 9)

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r1", avgIs(100)).Return(nil)

	res := svc.Recompute(context.Background(), ReaktionChange{After: &after})

	require.NoError(t, res.Err)
	mk.AssertNotCalled(t, "MarkReacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_MarkerUsesStringifiedNumericOrder(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	after := models.Reaktion{Path: "reaktions/r1", SongName: "Blue", ArtistName: "Ada", OrderNumber: int64(42), EmojiScore: 0, UserEmail: "a@b.com"}
	key := models.GroupKey{SongName: "Blue", ArtistName: "Ada", OrderNumber: int64(42)}

	rs.On("ListByGroup", mock.Anything, key).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, key).Return("", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r1", avgIs(0)).Return(nil)
	mk.On("MarkReacted", mock.Anything, "a@b.com", "42").Return(nil)

	res := svc.Recompute(context.Background(), ReaktionChange{After: &after})

	require.NoError(t, res.Err)
	mk.AssertExpectations(t)
}

func TestRecompute_FailuresAreSwallowed(t *testing.T) {
	svc, rs, cs, mk := newAggregator()
	after := reaktion("reaktions/r1", 9)
	after.UserID = "u1"

	rs.On("ListByGroup", mock.Anything, blueKey).Return([]models.Reaktion{after}, nil)
	cs.On("CoverImageURL", mock.Anything, blueKey).Return("", nil)
	rs.On("UpdateDerived", mock.Anything, "reaktions/r1", mock.Anything).Return(errors.New("deadline exceeded"))

	var res RecomputeResult
	assert.NotPanics(t, func() {
		res = svc.Recompute(context.Background(), ReaktionChange{After: &after})
	})
	assert.Error(t, res.Err)
	mk.AssertNotCalled(t, "MarkReacted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecompute_QueryFailureStopsEarly(t *testing.T) {
	svc, rs, cs, _ := newAggregator()
	after := reaktion("reaktions/r1", 9)

	rs.On("ListByGroup", mock.Anything, blueKey).Return(nil, errors.New("unavailable"))

	res := svc.Recompute(context.Background(), ReaktionChange{After: &after})

	assert.Error(t, res.Err)
	cs.AssertNotCalled(t, "CoverImageURL", mock.Anything, mock.Anything)
}

func TestAveragePercent(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"five seven nine", []float64{5, 7, 9}, 77.8},
		{"all max", []float64{9, 9}, 100},
		{"all zero", []float64{0, 0, 0}, 0},
		{"one third", []float64{3}, 33.3},
		{"missing scores count as zero", []float64{9, 0}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var group []models.Reaktion
			for _, s := range tt.scores {
				group = append(group, models.Reaktion{EmojiScore: s})
			}
			assert.Equal(t, tt.want, averagePercent(group))
		})
	}
}
