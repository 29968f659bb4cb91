package models

import (
	"fmt"
	"time"
)

// Collection names used across the functions.
const (
	PendingVerificationsCollection = "pending_verifications"
	ReaktionsCollection            = "reaktions"
	StudioUploadsCollection        = "studio_uploads"
	OrdersCollection               = "orders"
	ZipLookupCollection            = "zip_lookup"
	UsersCollection                = "users"
	ReactedSubcollection           = "reacted"
)

// PendingVerification is a one-time email code bound to an (email, device) pair.
// At most one exists per pair; a new issue overwrites the previous one.
type PendingVerification struct {
	Email      string    `firestore:"email"`
	Code       string    `firestore:"code"`
	DeviceID   string    `firestore:"deviceID"`
	IsGuest    bool      `firestore:"isGuest"`
	UserType   string    `firestore:"userType"`
	IsVerified bool      `firestore:"isVerified"`
	ExpiresAt  time.Time `firestore:"expiresAt"`
	// CreatedAt is written as a server timestamp.
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// PendingVerificationID returns the document id for an (email, device) pair.
func PendingVerificationID(email, deviceID string) string {
	return email + "_" + deviceID
}

// Reaktion is a single user's rating of a song tied to an order.
// OrderNumber keeps whatever type the client stored (string or integer)
// because Firestore equality filters are type-sensitive.
type Reaktion struct {
	Path            string      `firestore:"-"`
	SongName        string      `firestore:"song_name"`
	ArtistName      string      `firestore:"artist_name"`
	OrderNumber     interface{} `firestore:"order_number"`
	EmojiScore      float64     `firestore:"emoji_score"`
	UserID          string      `firestore:"user_id,omitempty"`
	UserEmail       string      `firestore:"user_email,omitempty"`
	AvgScorePercent *float64    `firestore:"avg_score_percent,omitempty"`
	CoverImageURL   *string     `firestore:"cover_image_url,omitempty"`
}

// UserKey is the identifier used for the per-user reacted marker.
func (r *Reaktion) UserKey() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.UserEmail
}

// DerivedFields is the delta written back to a Reaktion by the aggregate
// recomputation. Nil fields are left untouched.
type DerivedFields struct {
	AvgScorePercent *float64
	CoverImageURL   *string
}

// Empty reports whether there is nothing to write.
func (d DerivedFields) Empty() bool {
	return d.AvgScorePercent == nil && d.CoverImageURL == nil
}

// GroupKey identifies the work-instance a set of Reaktions rates.
type GroupKey struct {
	SongName    string
	ArtistName  string
	OrderNumber interface{}
}

// Order returns the order number as a string, as used in document ids.
func (k GroupKey) Order() string {
	return OrderString(k.OrderNumber)
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s / %s / %s", k.SongName, k.ArtistName, k.Order())
}

// OrderString renders a stored order number, which may be a string or a number.
func OrderString(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return fmt.Sprintf("%g", n)
	default:
		return fmt.Sprint(n)
	}
}

// StudioUpload is the authoritative record of an uploaded song for an order.
type StudioUpload struct {
	SongName      string      `firestore:"song_name"`
	ArtistName    string      `firestore:"artist_name"`
	OrderNumber   interface{} `firestore:"order_number"`
	CoverImageURL string      `firestore:"cover_image_url"`
}

// ReactedMarker records that a user has reacted to an order.
// Stored at users/{userIdOrEmail}/reacted/{orderNumber}.
type ReactedMarker struct {
	Reacted bool      `firestore:"reacted"`
	At      time.Time `firestore:"at,serverTimestamp"`
}

// Order is an upload credit issued after a completed checkout.
type Order struct {
	OrderNumber string    `firestore:"order_number"`
	Email       string    `firestore:"email"`
	IsUsed      bool      `firestore:"is_used"`
	CreatedAt   time.Time `firestore:"created_at,serverTimestamp"`
}

// ZipLookup maps a ZIP code to its city and state.
type ZipLookup struct {
	City  string `firestore:"city"`
	State string `firestore:"state"`
}
