package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. ULIDs sort by creation time, so order
// documents list in issue order in the console.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
