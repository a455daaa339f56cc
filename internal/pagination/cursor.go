// Package pagination implements opaque cursors for keyset pagination
// over result sets ordered by (created_at DESC, id DESC).
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caddystats/content-backend/internal/common"
)

// TimeFormat is the microsecond-precision UTC layout stored in cursors.
// It matches Postgres timestamptz resolution exactly: a coarser layout
// would shift the boundary below rows whose fractional seconds fall
// between the truncated and the stored value, skipping them.
const TimeFormat = "2006-01-02T15:04:05.000000Z07:00"

const delimiter = "|"

// Cursor is the decoded pagination boundary: the sort key of the last row
// on the previous page. It is never a primary-key substitute.
type Cursor struct {
	CreatedAt string // ISO-8601, TimeFormat
	ID        string
}

// Encode joins (created_at, id) with a single delimiter and base64-encodes
// the pair. Values must not contain the delimiter.
func Encode(createdAtISO, id string) string {
	raw := createdAtISO + delimiter + id
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// EncodeTime encodes a time.Time boundary in the canonical layout.
func EncodeTime(createdAt time.Time, id string) string {
	return Encode(createdAt.UTC().Format(TimeFormat), id)
}

// Decode reverses Encode, splitting on the first delimiter only.
func Decode(cursor string) (*Cursor, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", common.ErrInvalidInput)
	}
	createdAt, id, found := strings.Cut(string(raw), delimiter)
	if !found || createdAt == "" || id == "" {
		return nil, fmt.Errorf("%w: malformed cursor", common.ErrInvalidInput)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}

// Time parses the cursor's timestamp component.
func (c *Cursor) Time() (time.Time, error) {
	t, err := time.Parse(TimeFormat, c.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad cursor timestamp", common.ErrInvalidInput)
	}
	return t, nil
}
