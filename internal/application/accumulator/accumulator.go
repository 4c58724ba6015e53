// Package accumulator incrementally loads a server-paginated member list and layers the
// client-side age-bucket filter on top of it.
//
// Search, gender and profession are applied by the Fetcher. Age buckets are applied locally
// because age is derived from free-form birth dates the backend cannot filter on.
package accumulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"directory/internal/domain/member"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 20

// ErrSuperseded is returned when a response arrives after a newer query replaced it.
// The response is discarded and accumulated state is left as the newer query set it.
var ErrSuperseded = errors.New("accumulator: response superseded by a newer query")

// Query holds the server-side predicates.
type Query struct {
	Search     string   `json:"search,omitempty"`
	Genders    []string `json:"genders,omitempty"`
	Profession string   `json:"profession,omitempty"`
}

// Page is one window of rows plus the total match count.
type Page struct {
	Rows  []member.Member
	Total int
}

// Fetcher retrieves rows [page*pageSize, page*pageSize+pageSize) ordered by surname.
type Fetcher interface {
	FetchMembers(ctx context.Context, q Query, page, pageSize int) (Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, q Query, page, pageSize int) (Page, error)

// FetchMembers calls f.
func (f FetcherFunc) FetchMembers(ctx context.Context, q Query, page, pageSize int) (Page, error) {
	return f(ctx, q, page, pageSize)
}

// Options configures an Accumulator.
type Options struct {
	PageSize int
	Resolver member.URLResolver // only for fetchers returning stored paths; nil uses rows as-is
	Now      func() time.Time   // nil selects time.Now
}

// Snapshot is a consistent copy of the accumulator's state.
type Snapshot struct {
	Query      Query         `json:"query"`
	AgeBuckets []string      `json:"age_buckets"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	Loaded     int           `json:"loaded"`
	HasMore    bool          `json:"has_more"`
	Visible    []member.Card `json:"visible"`
}

// Accumulator holds one list view's state. Safe for concurrent use.
//
// INVARIANT: len(cards) == len(rows)
// INVARIANT: HasMore() == (len(cards) < total) for the most recently applied response
// INVARIANT: only responses carrying the current generation are applied
type Accumulator struct {
	fetcher  Fetcher
	pageSize int
	resolver member.URLResolver
	now      func() time.Time

	mu          sync.Mutex
	query       Query
	buckets     member.BucketSet
	page        int
	cards       []member.Card
	rows        []member.Member
	index       map[string]int
	total       int
	err         error
	gen         uint64
	loadingMore bool
}

// New creates an idle Accumulator. Call Start to load the first page.
func New(f Fetcher, opts Options) *Accumulator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Accumulator{
		fetcher:  f,
		pageSize: opts.PageSize,
		resolver: opts.Resolver,
		now:      opts.Now,
		buckets:  member.BucketSet{},
		index:    map[string]int{},
	}
}

// Start loads page 0 for the current query, replacing anything accumulated.
func (a *Accumulator) Start(ctx context.Context) error {
	return a.reset(ctx, nil)
}

// SetQuery replaces the server-side predicates and reloads from page 0.
// POST: accumulated data is cleared before the fetch is issued
func (a *Accumulator) SetQuery(ctx context.Context, q Query) error {
	return a.reset(ctx, func() { a.query = cloneQuery(q) })
}

// Refetch reloads page 0 with the identical query.
func (a *Accumulator) Refetch(ctx context.Context) error {
	return a.reset(ctx, nil)
}

// ClearFilters resets genders, profession and age buckets, keeps the search text, and reloads.
func (a *Accumulator) ClearFilters(ctx context.Context) error {
	return a.reset(ctx, func() {
		a.query = Query{Search: a.query.Search}
		a.buckets = member.BucketSet{}
	})
}

// SetAgeBuckets replaces the client-side age filter. It never triggers a fetch.
// Unknown labels are ignored.
func (a *Accumulator) SetAgeBuckets(labels ...string) {
	set := member.ParseAgeBuckets(labels)
	a.mu.Lock()
	a.buckets = set
	a.mu.Unlock()
}

// LoadMore fetches the next page and appends it.
// POST: no-op (nil) when !HasMore() or a load-more is already in flight
// POST: on failure the page number reverts so the next call retries the same page
func (a *Accumulator) LoadMore(ctx context.Context) error {
	a.mu.Lock()
	if a.loadingMore || len(a.cards) >= a.total {
		a.mu.Unlock()
		return nil
	}
	a.page++
	page, gen, q := a.page, a.gen, cloneQuery(a.query)
	a.loadingMore = true
	a.mu.Unlock()

	return a.fetch(ctx, gen, q, page)
}

func (a *Accumulator) reset(ctx context.Context, mutate func()) error {
	a.mu.Lock()
	if mutate != nil {
		mutate()
	}
	a.gen++
	a.page = 0
	a.cards = nil
	a.rows = nil
	a.index = map[string]int{}
	a.total = 0
	a.err = nil
	a.loadingMore = false
	gen, q := a.gen, cloneQuery(a.query)
	a.mu.Unlock()

	return a.fetch(ctx, gen, q, 0)
}

// fetch runs without the lock held and applies the result only if gen is still current.
func (a *Accumulator) fetch(ctx context.Context, gen uint64, q Query, page int) error {
	res, err := a.fetcher.FetchMembers(ctx, q, page, a.pageSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen {
		return ErrSuperseded
	}
	if page > 0 {
		a.loadingMore = false
	}
	if err != nil {
		a.err = err
		if page > 0 {
			a.page = page - 1
		}
		return err
	}

	cards := member.ToCards(res.Rows, a.now(), a.resolver)
	if page == 0 {
		a.cards, a.rows = cards, append([]member.Member(nil), res.Rows...)
		a.index = make(map[string]int, len(res.Rows))
		for i, m := range a.rows {
			a.index[m.ID] = i
		}
	} else {
		base := len(a.rows)
		a.cards = append(a.cards, cards...)
		a.rows = append(a.rows, res.Rows...)
		for i, m := range res.Rows {
			a.index[m.ID] = base + i
		}
	}
	a.total = res.Total
	a.err = nil
	return nil
}

// Visible returns the accumulated cards that pass the age-bucket filter, in load order.
func (a *Accumulator) Visible() []member.Card {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visibleLocked()
}

func (a *Accumulator) visibleLocked() []member.Card {
	out := make([]member.Card, 0, len(a.cards))
	for _, c := range a.cards {
		if a.buckets.Matches(c.Age) {
			out = append(out, c)
		}
	}
	return out
}

// All returns every accumulated card regardless of the age filter.
func (a *Accumulator) All() []member.Card {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]member.Card(nil), a.cards...)
}

// Raw returns the full record behind a card, for detail navigation.
func (a *Accumulator) Raw(id string) (member.Member, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.index[id]
	if !ok {
		return member.Member{}, false
	}
	return a.rows[i], true
}

// HasMore reports whether rows beyond the accumulated ones exist.
func (a *Accumulator) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cards) < a.total
}

// Err returns the error of the most recent applied fetch, or nil.
func (a *Accumulator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Snapshot returns a consistent copy of the current state.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Query:      cloneQuery(a.query),
		AgeBuckets: a.buckets.Labels(),
		Page:       a.page,
		PageSize:   a.pageSize,
		Total:      a.total,
		Loaded:     len(a.cards),
		HasMore:    len(a.cards) < a.total,
		Visible:    a.visibleLocked(),
	}
}

func cloneQuery(q Query) Query {
	q.Genders = append([]string(nil), q.Genders...)
	return q
}
