package rest

import (
	"fmt"
	"net/url"
	"time"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/types"
)

// Page is one fetched slice of a stream, already decoded by the driver
type Page struct {
	Records []map[string]any
	// NextCursor is the opaque token for the following page; empty
	// means the source reported no further pages.
	NextCursor string
}

// Paginator drives the page loop for one stream sync. Prepare mutates
// the query for the upcoming request and reports whether a request
// should be made at all; Observe feeds the fetched page back.
//
// A cursor paginator keeps requesting as long as the source hands out a
// next token, even over empty pages, so servers that interleave empty
// slices into their paging stream are drained fully.
type Paginator interface {
	Prepare(query url.Values) bool
	Observe(page *Page)
}

// NewPaginator builds the paginator matching the stream's strategy
func NewPaginator(stream types.StreamInterface, pageSize int, windowStart, windowEnd time.Time) (Paginator, error) {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	switch stream.GetStream().Pagination {
	case types.PaginateCursor:
		return NewCursorPaginator("page[cursor]", pageSize), nil
	case types.PaginateOffset:
		return NewOffsetPaginator("offset", "limit", pageSize), nil
	case types.PaginateWindow:
		return NewWindowPaginator("start", "end", windowStart, windowEnd, 24*time.Hour), nil
	default:
		return nil, fmt.Errorf("unknown pagination mode %q on stream %s", stream.GetStream().Pagination, stream.ID())
	}
}

// CursorPaginator follows opaque next-page tokens handed out by the source
type CursorPaginator struct {
	param    string
	pageSize int
	next     string
	started  bool
}

func NewCursorPaginator(param string, pageSize int) *CursorPaginator {
	return &CursorPaginator{param: param, pageSize: pageSize}
}

func (p *CursorPaginator) Prepare(query url.Values) bool {
	if p.started && p.next == "" {
		return false
	}

	if p.next != "" {
		query.Set(p.param, p.next)
	}
	query.Set("page[size]", fmt.Sprintf("%d", p.pageSize))
	return true
}

func (p *CursorPaginator) Observe(page *Page) {
	p.started = true
	p.next = page.NextCursor
}

// OffsetPaginator advances a numeric offset until a short page signals
// exhaustion.
type OffsetPaginator struct {
	offsetParam string
	limitParam  string
	pageSize    int
	offset      int
	done        bool
}

func NewOffsetPaginator(offsetParam, limitParam string, pageSize int) *OffsetPaginator {
	return &OffsetPaginator{offsetParam: offsetParam, limitParam: limitParam, pageSize: pageSize}
}

func (p *OffsetPaginator) Prepare(query url.Values) bool {
	if p.done {
		return false
	}

	query.Set(p.offsetParam, fmt.Sprintf("%d", p.offset))
	query.Set(p.limitParam, fmt.Sprintf("%d", p.pageSize))
	return true
}

func (p *OffsetPaginator) Observe(page *Page) {
	if len(page.Records) < p.pageSize {
		p.done = true
		return
	}

	p.offset += p.pageSize
}

// WindowPaginator walks fixed time windows from start to end; used for
// endpoints that only filter by time range instead of paging.
type WindowPaginator struct {
	startParam string
	endParam   string
	cursor     time.Time
	end        time.Time
	step       time.Duration
}

func NewWindowPaginator(startParam, endParam string, start, end time.Time, step time.Duration) *WindowPaginator {
	if step <= 0 {
		step = 24 * time.Hour
	}

	return &WindowPaginator{
		startParam: startParam,
		endParam:   endParam,
		cursor:     start,
		end:        end,
		step:       step,
	}
}

func (p *WindowPaginator) Prepare(query url.Values) bool {
	if !p.cursor.Before(p.end) {
		return false
	}

	windowEnd := p.cursor.Add(p.step)
	if windowEnd.After(p.end) {
		windowEnd = p.end
	}

	query.Set(p.startParam, p.cursor.UTC().Format(time.RFC3339))
	query.Set(p.endParam, windowEnd.UTC().Format(time.RFC3339))
	return true
}

func (p *WindowPaginator) Observe(_ *Page) {
	p.cursor = p.cursor.Add(p.step)
}
