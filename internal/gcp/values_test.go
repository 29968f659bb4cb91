package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaktionFromData(t *testing.T) {
	r := reaktionFromData("reaktions/r1", map[string]interface{}{
		"song_name":         "Blue",
		"artist_name":       "Ada",
		"order_number":      int64(123456),
		"emoji_score":       int64(7),
		"user_id":           "u1",
		"avg_score_percent": 77.8,
		"cover_image_url":   "https://cdn/cover.jpg",
	})

	assert.Equal(t, "reaktions/r1", r.Path)
	assert.Equal(t, "Blue", r.SongName)
	assert.Equal(t, int64(123456), r.OrderNumber)
	assert.Equal(t, 7.0, r.EmojiScore)
	assert.Equal(t, "u1", r.UserKey())
	require.NotNil(t, r.AvgScorePercent)
	assert.Equal(t, 77.8, *r.AvgScorePercent)
	require.NotNil(t, r.CoverImageURL)
	assert.Equal(t, "https://cdn/cover.jpg", *r.CoverImageURL)
}

func TestReaktionFromData_LenientScore(t *testing.T) {
	for name, score := range map[string]interface{}{
		"missing": nil,
		"string":  "9",
		"bool":    true,
	} {
		t.Run(name, func(t *testing.T) {
			m := map[string]interface{}{"song_name": "Blue"}
			if score != nil {
				m["emoji_score"] = score
			}
			r := reaktionFromData("reaktions/x", m)
			assert.Equal(t, 0.0, r.EmojiScore)
			assert.Nil(t, r.AvgScorePercent)
			assert.Nil(t, r.CoverImageURL)
		})
	}
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 5.0, toFloat(int64(5)))
	assert.Equal(t, 5.5, toFloat(5.5))
	assert.Equal(t, 0.0, toFloat(nil))
}
