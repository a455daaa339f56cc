package pagination

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caddystats/content-backend/internal/common"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := "2025-03-14T09:26:53.589123Z"
	id := "2f8a7c9e-0000-4000-8000-000000000001"

	cursor, err := Decode(Encode(ts, id))

	assert.NoError(t, err)
	assert.Equal(t, ts, cursor.CreatedAt)
	assert.Equal(t, id, cursor.ID)
}

func TestEncodeTime_UTCMicroseconds(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	at := time.Date(2025, 3, 14, 18, 26, 53, 589_123_000, loc)

	cursor, err := Decode(EncodeTime(at, "abc"))

	assert.NoError(t, err)
	assert.Equal(t, "2025-03-14T09:26:53.589123Z", cursor.CreatedAt)

	parsed, err := cursor.Time()
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestEncodeTime_BoundaryKeepsStoredPrecision(t *testing.T) {
	// Postgres stores microseconds. The decoded boundary must equal the
	// stored created_at of the last row on a page; otherwise rows whose
	// timestamps fall between the truncated boundary and the stored value
	// would fail the (created_at, id) < boundary filter and be skipped.
	boundary := time.Date(2025, 6, 1, 12, 0, 0, 123_456_000, time.UTC)
	next := time.Date(2025, 6, 1, 12, 0, 0, 123_400_000, time.UTC)

	cursor, err := Decode(EncodeTime(boundary, "aaaa"))
	assert.NoError(t, err)

	parsed, err := cursor.Time()
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(boundary), "boundary must round-trip losslessly")
	assert.True(t, next.Before(parsed), "the next DESC row must still satisfy created_at < boundary")
}

func TestDecode_SplitsOnFirstDelimiterOnly(t *testing.T) {
	// An id containing the delimiter survives because only the first
	// occurrence splits.
	cursor, err := Decode(Encode("2025-01-01T00:00:00.000000Z", "a|b|c"))

	assert.NoError(t, err)
	assert.Equal(t, "a|b|c", cursor.ID)
}

func TestDecode_Malformed(t *testing.T) {
	cases := []string{
		"not-base64!!!",
		Encode("", "id"),
		Encode("2025-01-01T00:00:00.000000Z", ""),
	}
	for _, c := range cases {
		_, err := Decode(c)
		assert.ErrorIs(t, err, common.ErrInvalidInput, "cursor %q", c)
	}

	// No delimiter at all
	_, err := Decode("aGVsbG8=") // base64("hello")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultPageSize, ClampPageSize(-5))
	assert.Equal(t, 30, ClampPageSize(30))
	assert.Equal(t, MaxPageSize, ClampPageSize(500))
}

func TestBuildConnection_Truncation(t *testing.T) {
	rows := []int{1, 2, 3, 4} // pageSize+1 rows fetched
	conn := BuildConnection(rows, 3, func(n int) string { return fmt.Sprintf("c%d", n) })

	assert.Len(t, conn.Edges, 3)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.Equal(t, "c3", *conn.PageInfo.EndCursor)
	assert.Equal(t, 1, conn.Edges[0].Node)
}

func TestBuildConnection_LastPage(t *testing.T) {
	rows := []int{1, 2}
	conn := BuildConnection(rows, 3, func(n int) string { return fmt.Sprintf("c%d", n) })

	assert.Len(t, conn.Edges, 2)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.Equal(t, "c2", *conn.PageInfo.EndCursor)
}

func TestBuildConnection_Empty(t *testing.T) {
	conn := BuildConnection(nil, 3, func(n int) string { return "" })

	assert.Empty(t, conn.Edges)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.Nil(t, conn.PageInfo.EndCursor)
}
