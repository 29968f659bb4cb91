package models

import (
	"fmt"
	"strings"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ParseDocumentEvent decodes a Firestore document write event
// (google.events.cloud.firestore.v1.DocumentEventData). Eventarc sends
// protobuf by default; JSON is accepted when the trigger is configured for it.
// A value with neither a name nor fields is cleared, so a create has no
// OldValue and a delete has no Value.
func ParseDocumentEvent(contentType string, data []byte) (*firestoredata.DocumentEventData, error) {
	var ev firestoredata.DocumentEventData
	if strings.Contains(contentType, "json") {
		if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode firestore event as json: %w", err)
		}
	} else if err := proto.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode firestore event as protobuf: %w", err)
	}
	if isEmptyDocument(ev.Value) {
		ev.Value = nil
	}
	if isEmptyDocument(ev.OldValue) {
		ev.OldValue = nil
	}
	return &ev, nil
}

func isEmptyDocument(d *firestoredata.Document) bool {
	return d != nil && d.GetName() == "" && len(d.GetFields()) == 0
}

// DocumentPath returns the document path relative to the database root,
// e.g. "reaktions/abc".
func DocumentPath(d *firestoredata.Document) string {
	name := d.GetName()
	if i := strings.Index(name, "/documents/"); i >= 0 {
		return name[i+len("/documents/"):]
	}
	return name
}

// DocumentID returns the last segment of the document path.
func DocumentID(d *firestoredata.Document) string {
	p := DocumentPath(d)
	return p[strings.LastIndex(p, "/")+1:]
}

func stringField(d *firestoredata.Document, field string) (string, bool) {
	v, ok := d.GetFields()[field].GetValueType().(*firestoredata.Value_StringValue)
	if !ok {
		return "", false
	}
	return v.StringValue, true
}

// numberField accepts both integer and double encodings.
func numberField(d *firestoredata.Document, field string) (float64, bool) {
	switch v := d.GetFields()[field].GetValueType().(type) {
	case *firestoredata.Value_DoubleValue:
		return v.DoubleValue, true
	case *firestoredata.Value_IntegerValue:
		return float64(v.IntegerValue), true
	}
	return 0, false
}

// scalarField returns a field in its native Go type: string, int64, float64,
// bool, or nil when absent, null or not a scalar.
func scalarField(d *firestoredata.Document, field string) interface{} {
	switch v := d.GetFields()[field].GetValueType().(type) {
	case *firestoredata.Value_StringValue:
		return v.StringValue
	case *firestoredata.Value_IntegerValue:
		return v.IntegerValue
	case *firestoredata.Value_DoubleValue:
		return v.DoubleValue
	case *firestoredata.Value_BooleanValue:
		return v.BooleanValue
	}
	return nil
}

// ReaktionFromDocument converts an event document into a Reaktion. A nil
// document yields nil.
func ReaktionFromDocument(d *firestoredata.Document) *Reaktion {
	if d == nil {
		return nil
	}
	r := &Reaktion{Path: DocumentPath(d), OrderNumber: scalarField(d, "order_number")}
	r.SongName, _ = stringField(d, "song_name")
	r.ArtistName, _ = stringField(d, "artist_name")
	r.UserID, _ = stringField(d, "user_id")
	r.UserEmail, _ = stringField(d, "user_email")
	r.EmojiScore, _ = numberField(d, "emoji_score")
	if avg, ok := numberField(d, "avg_score_percent"); ok {
		r.AvgScorePercent = &avg
	}
	if cover, ok := stringField(d, "cover_image_url"); ok {
		r.CoverImageURL = &cover
	}
	return r
}
