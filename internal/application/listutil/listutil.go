// Package listutil parses list query parameters and computes page windows.
// Pages are 0-indexed: page n covers rows [n*size, n*size+size).
package listutil

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page     int // 0-indexed page number
	PageSize int // rows per page
}

// Limits bounds page sizes.
type Limits struct {
	Default int
	Max     int
}

// MaxOffset bounds page*size so the SQL OFFSET never overflows.
const MaxOffset = math.MaxInt32

// DefaultLimits apply when a caller passes zero Limits.
var DefaultLimits = Limits{Default: 20, Max: 100}

// PageInfo carries pagination metadata for responses.
type PageInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// MemberFilter carries the server-side member predicates.
type MemberFilter struct {
	Search     string   `json:"search,omitempty"`
	Genders    []string `json:"genders,omitempty"`
	Profession string   `json:"profession,omitempty"`
}

// ParsePageParams extracts page and page_size from URL query values.
// POST: Page >= 0; 0 < PageSize <= limits.Max; Page*PageSize <= MaxOffset
func ParsePageParams(q url.Values, limits Limits) PageParams {
	if limits.Default <= 0 {
		limits = DefaultLimits
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || size <= 0 {
		size = limits.Default
	}
	if limits.Max > 0 && size > limits.Max {
		size = limits.Max
	}
	if size > MaxOffset {
		size = MaxOffset
	}
	page = min(page, MaxOffset/size)
	return PageParams{Page: page, PageSize: size}
}

// Offset returns the SQL OFFSET for the page.
func (p PageParams) Offset() int {
	return p.Page * p.PageSize
}

// ParseMemberFilter extracts q, repeated gender values and profession.
// Gender values may also be comma-separated; blanks are dropped.
func ParseMemberFilter(q url.Values) MemberFilter {
	f := MemberFilter{
		Search:     strings.TrimSpace(q.Get("q")),
		Profession: strings.TrimSpace(q.Get("profession")),
	}
	for _, raw := range q["gender"] {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				f.Genders = append(f.Genders, g)
			}
		}
	}
	return f
}

// Values encodes the filter and page back into query values.
func (f MemberFilter) Values(p PageParams) url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	for _, g := range f.Genders {
		v.Add("gender", g)
	}
	if f.Profession != "" {
		v.Set("profession", f.Profession)
	}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("page_size", strconv.Itoa(p.PageSize))
	return v
}

// NewPageInfo computes metadata for a page that returned `returned` rows.
// POST: HasMore iff rows beyond this page exist
func NewPageInfo(p PageParams, returned, total int) PageInfo {
	return PageInfo{
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
		HasMore:  p.Offset()+returned < total,
	}
}
