package pagination

// DefaultPageSize and MaxPageSize bound page sizes requested by clients.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPageSize normalizes a requested page size.
func ClampPageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// PageInfo reports whether another page exists and where it starts.
type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor,omitempty"`
}

// Edge pairs a row with the cursor that addresses it.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// Connection is one page of results.
type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges"`
	PageInfo PageInfo  `json:"page_info"`
}

// BuildConnection assembles a page from rows fetched with pageSize+1.
// When more than pageSize rows came back the extra row is dropped and
// HasNextPage is set; the cursor of the last kept row becomes EndCursor.
func BuildConnection[T any](rows []T, pageSize int, cursorFor func(T) string) *Connection[T] {
	hasNext := false
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		hasNext = true
	}

	conn := &Connection[T]{
		Edges:    make([]Edge[T], 0, len(rows)),
		PageInfo: PageInfo{HasNextPage: hasNext},
	}
	for _, row := range rows {
		conn.Edges = append(conn.Edges, Edge[T]{Cursor: cursorFor(row), Node: row})
	}
	if n := len(conn.Edges); n > 0 {
		end := conn.Edges[n-1].Cursor
		conn.PageInfo.EndCursor = &end
	}
	return conn
}
