package projections

import (
	"context"
	"fmt"
	"time"

	"directory/internal/adapters/storage/member"
	"directory/internal/application/accumulator"
	"directory/internal/application/listutil"
	domainMember "directory/internal/domain/member"
)

// GetMemberPageQuery carries query parameters.
type GetMemberPageQuery struct {
	Filter listutil.MemberFilter
	Page   listutil.PageParams
	Now    time.Time // zero selects time.Now
}

// GetMemberPageResult carries the query result.
type GetMemberPageResult struct {
	Rows  []domainMember.Member `json:"rows"`
	Cards []domainMember.Card   `json:"cards"`
	Info  listutil.PageInfo     `json:"page_info"`
}

// GetMemberPageDeps holds dependencies for QueryMemberPage.
type GetMemberPageDeps struct {
	MemberStore MemberStore
	Resolver    URLResolver // optional
}

// QueryMemberPage returns one window of the member list ordered by surname.
// PRE: Page.PageSize > 0, Page.Page >= 0
// POST: len(Rows) == len(Cards) <= PageSize; Info.HasMore iff rows exist past this page;
// Rows carry resolved picture URLs
func QueryMemberPage(ctx context.Context, query GetMemberPageQuery, deps GetMemberPageDeps) (GetMemberPageResult, error) {
	filter := member.ListFilter{
		Limit:      query.Page.PageSize,
		Offset:     query.Page.Offset(),
		Search:     query.Filter.Search,
		Genders:    query.Filter.Genders,
		Profession: query.Filter.Profession,
	}
	rows, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberPageResult{}, fmt.Errorf("list members: %w", err)
	}
	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberPageResult{}, fmt.Errorf("count members: %w", err)
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	if rows == nil {
		rows = []domainMember.Member{}
	}
	for i := range rows {
		if pic := rows[i].ProfilePicture; pic != nil {
			resolved := publicURL(deps.Resolver, *pic)
			rows[i].ProfilePicture = &resolved
		}
	}
	return GetMemberPageResult{
		Rows:  rows,
		Cards: domainMember.ToCards(rows, now, nil),
		Info:  listutil.NewPageInfo(query.Page, len(rows), total),
	}, nil
}

// MemberPageFetcher serves an Accumulator straight from a MemberStore.
// With a Resolver set, rows already carry public picture URLs, so the
// Accumulator must be built without its own Options.Resolver.
type MemberPageFetcher struct {
	Store    MemberStore
	Resolver URLResolver // optional
}

var _ accumulator.Fetcher = MemberPageFetcher{}

// FetchMembers implements accumulator.Fetcher.
// PRE: pageSize > 0
// POST: Rows are the raw records for the window; Total counts every match
func (f MemberPageFetcher) FetchMembers(ctx context.Context, q accumulator.Query, page, pageSize int) (accumulator.Page, error) {
	res, err := QueryMemberPage(ctx, GetMemberPageQuery{
		Filter: listutil.MemberFilter{Search: q.Search, Genders: q.Genders, Profession: q.Profession},
		Page:   listutil.PageParams{Page: page, PageSize: pageSize},
	}, GetMemberPageDeps{MemberStore: f.Store, Resolver: f.Resolver})
	if err != nil {
		return accumulator.Page{}, err
	}
	return accumulator.Page{Rows: res.Rows, Total: res.Info.Total}, nil
}
