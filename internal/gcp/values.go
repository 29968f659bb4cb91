package gcp

import "github.com/songreaktor/functions/internal/models"

// reaktionFromData decodes a reaktion leniently: a missing, null or
// non-numeric emoji_score counts as 0 instead of failing the whole group.
func reaktionFromData(path string, m map[string]interface{}) models.Reaktion {
	r := models.Reaktion{
		Path:        path,
		OrderNumber: m["order_number"],
		EmojiScore:  toFloat(m["emoji_score"]),
	}
	r.SongName, _ = m["song_name"].(string)
	r.ArtistName, _ = m["artist_name"].(string)
	r.UserID, _ = m["user_id"].(string)
	r.UserEmail, _ = m["user_email"].(string)
	if v, ok := m["avg_score_percent"]; ok && v != nil {
		f := toFloat(v)
		r.AvgScorePercent = &f
	}
	if s, ok := m["cover_image_url"].(string); ok {
		r.CoverImageURL = &s
	}
	return r
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
