package webapi

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
)

// PageRequest is a normalized 1-based page request
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps page to [1, MaxPageNumber(size)] and size to at least 1
func NewPageRequest(page, size int) PageRequest {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	if last := MaxPageNumber(size); page > last {
		page = last
	}
	return PageRequest{Number: page, Size: size}
}

// MaxPageNumber is the largest page whose record offsets fit in an int,
// with room for one more page of records
func MaxPageNumber(size int) int {
	if size < 1 {
		size = 1
	}
	return (math.MaxInt - size) / size
}

// Offset returns the zero-based index of the first record of the page
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Call describes one HTTP round trip issued by a pager
type Call struct {
	// Query is merged into the resolved query (or body parameters)
	Query url.Values
	// URL replaces the resolved URL entirely, e.g. with an @odata.nextLink
	URL string
}

// Page is what a single call returned
type Page struct {
	Items []any
	// Total is the vendor-reported record count, or -1
	Total int
	// Body is the raw response for pager-specific lookups (cursors, next offsets)
	Body []byte
}

// FetchFunc performs one call for the entity being paged
type FetchFunc func(ctx context.Context, call Call) (*Page, error)

// Pager maps a page request onto a vendor's pagination style
type Pager interface {
	Fetch(ctx context.Context, fetch FetchFunc, req PageRequest) (*core.PagedResult, error)
}

// OffsetPager sends the record offset and a limit, e.g. $skip/$top or offset/limit
type OffsetPager struct {
	OffsetParam string
	LimitParam  string
	// NextOffsetPath locates a "next offset" value; a negative value means no more pages
	NextOffsetPath string
}

// Fetch implements Pager
func (p OffsetPager) Fetch(ctx context.Context, fetch FetchFunc, req PageRequest) (*core.PagedResult, error) {
	q := url.Values{}
	q.Set(p.OffsetParam, strconv.Itoa(req.Offset()))
	q.Set(p.LimitParam, strconv.Itoa(req.Size))

	page, err := fetch(ctx, Call{Query: q})
	if err != nil {
		return nil, err
	}

	var hasMore *bool
	if p.NextOffsetPath != "" {
		if next, ok := IntAt(page.Body, p.NextOffsetPath); ok {
			more := next >= 0
			hasMore = &more
		}
	}
	return BuildPage(page.Items, req, page.Total, hasMore), nil
}

// PageNumberPager sends a 1-based page number and a page size
type PageNumberPager struct {
	PageParam string
	SizeParam string
	// ZeroBased sends Number-1 for vendors counting pages from zero
	ZeroBased bool
}

// Fetch implements Pager
func (p PageNumberPager) Fetch(ctx context.Context, fetch FetchFunc, req PageRequest) (*core.PagedResult, error) {
	n := req.Number
	if p.ZeroBased {
		n--
	}
	q := url.Values{}
	q.Set(p.PageParam, strconv.Itoa(n))
	q.Set(p.SizeParam, strconv.Itoa(req.Size))

	page, err := fetch(ctx, Call{Query: q})
	if err != nil {
		return nil, err
	}
	return BuildPage(page.Items, req, page.Total, nil), nil
}

// CursorPager follows opaque continuation tokens. Reaching page N walks the
// N-1 preceding pages since cursors cannot be computed.
type CursorPager struct {
	// TokenParam carries the cursor on the next call; empty means NextPath holds a full URL
	TokenParam string
	SizeParam  string
	// NextPath locates the next cursor or link in the response
	NextPath string
}

// Fetch implements Pager
func (p CursorPager) Fetch(ctx context.Context, fetch FetchFunc, req PageRequest) (*core.PagedResult, error) {
	cursor := ""
	for n := 1; ; n++ {
		call := Call{Query: url.Values{}}
		if p.SizeParam != "" {
			call.Query.Set(p.SizeParam, strconv.Itoa(req.Size))
		}
		if cursor != "" {
			if p.TokenParam == "" {
				call = Call{URL: cursor}
			} else {
				call.Query.Set(p.TokenParam, cursor)
			}
		}

		page, err := fetch(ctx, call)
		if err != nil {
			return nil, err
		}
		next, _ := ScalarAt(page.Body, p.NextPath)

		if n == req.Number {
			more := next != ""
			return BuildPage(page.Items, req, page.Total, &more), nil
		}
		if next == "" {
			no := false
			return BuildPage(nil, req, page.Total, &no), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cursor = next
	}
}

// SlicePager fetches everything in one call and pages client-side
type SlicePager struct {
	// Query is sent with the single call, e.g. a vendor maximum page size
	Query url.Values
}

// Fetch implements Pager
func (p SlicePager) Fetch(ctx context.Context, fetch FetchFunc, req PageRequest) (*core.PagedResult, error) {
	page, err := fetch(ctx, Call{Query: p.Query})
	if err != nil {
		return nil, err
	}
	all := page.Items
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	return BuildPage(all[start:end], req, len(all), nil), nil
}

// BuildPage assembles a PagedResult. With a known total (>= 0) the counts are
// exact; otherwise the total is estimated as offset+len(items) and a full page
// is taken to mean another page may follow. hasMore, when set, overrides the
// next-page flag.
func BuildPage(items []any, req PageRequest, total int, hasMore *bool) *core.PagedResult {
	if items == nil {
		items = []any{}
	}
	r := &core.PagedResult{
		Data:            items,
		PageNumber:      req.Number,
		PageSize:        req.Size,
		HasPreviousPage: req.Number > 1,
	}

	if total >= 0 {
		r.TotalRecords = total
		r.HasNextPage = req.Number*req.Size < total
	} else {
		r.Estimated = true
		r.TotalRecords = req.Offset() + len(items)
		r.HasNextPage = len(items) >= req.Size
	}
	if hasMore != nil {
		r.HasNextPage = *hasMore
	}
	if req.Size > 0 {
		r.TotalPages = (r.TotalRecords + req.Size - 1) / req.Size
	}
	if r.Estimated && r.HasNextPage && r.TotalPages <= req.Number {
		r.TotalPages = req.Number + 1
	}
	return r
}

// EmptyPage is returned when a failure is swallowed
func EmptyPage(req PageRequest) *core.PagedResult {
	r := BuildPage(nil, req, -1, nil)
	r.HasNextPage = false
	r.TotalPages = 0
	r.TotalRecords = 0
	return r
}
