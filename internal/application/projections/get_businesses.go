package projections

import (
	"context"
	"fmt"

	"directory/internal/adapters/storage/business"
	"directory/internal/application/listutil"
	domainBusiness "directory/internal/domain/business"
)

// GetBusinessesQuery carries query parameters.
type GetBusinessesQuery struct {
	Search   string
	Category string
	Page     listutil.PageParams
}

// GetBusinessesResult carries the query result.
type GetBusinessesResult struct {
	Businesses []domainBusiness.Business `json:"businesses"`
	Info       listutil.PageInfo         `json:"page_info"`
}

// GetBusinessesDeps holds dependencies for the business queries.
type GetBusinessesDeps struct {
	BusinessStore BusinessStore
	Resolver      URLResolver
}

// QueryBusinesses lists business listings by name.
// PRE: Page.PageSize > 0
// POST: Cover and gallery images are public URLs
func QueryBusinesses(ctx context.Context, query GetBusinessesQuery, deps GetBusinessesDeps) (GetBusinessesResult, error) {
	filter := business.ListFilter{
		Limit:    query.Page.PageSize,
		Offset:   query.Page.Offset(),
		Search:   query.Search,
		Category: query.Category,
	}
	list, err := deps.BusinessStore.List(ctx, filter)
	if err != nil {
		return GetBusinessesResult{}, fmt.Errorf("list businesses: %w", err)
	}
	total, err := deps.BusinessStore.Count(ctx, filter)
	if err != nil {
		return GetBusinessesResult{}, fmt.Errorf("count businesses: %w", err)
	}
	out := make([]domainBusiness.Business, 0, len(list))
	for _, b := range list {
		out = append(out, resolveBusiness(b, deps.Resolver))
	}
	return GetBusinessesResult{
		Businesses: out,
		Info:       listutil.NewPageInfo(query.Page, len(list), total),
	}, nil
}

// QueryBusiness retrieves one listing.
// POST: Returns storage.ErrNotFound for an unknown id
func QueryBusiness(ctx context.Context, id string, deps GetBusinessesDeps) (domainBusiness.Business, error) {
	b, err := deps.BusinessStore.GetByID(ctx, id)
	if err != nil {
		return domainBusiness.Business{}, err
	}
	return resolveBusiness(b, deps.Resolver), nil
}

func resolveBusiness(b domainBusiness.Business, r URLResolver) domainBusiness.Business {
	b.CoverImage = publicURL(r, b.CoverImage)
	b.Images = publicURLs(r, b.Images)
	return b
}
