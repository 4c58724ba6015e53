package projections

import (
	"context"
	"fmt"

	"directory/internal/application/listutil"
	domainDonation "directory/internal/domain/donation"
)

// GetDonationsQuery carries query parameters.
type GetDonationsQuery struct {
	Page listutil.PageParams
}

// DonationView is a donation with its amount formatted for display.
type DonationView struct {
	domainDonation.Donation
	Amount string `json:"amount"`
}

// GetDonationsResult carries the query result.
type GetDonationsResult struct {
	Donations []DonationView    `json:"donations"`
	Info      listutil.PageInfo `json:"page_info"`
}

// GetDonationsDeps holds dependencies for QueryDonations.
type GetDonationsDeps struct {
	DonationStore DonationStore
	Resolver      URLResolver
}

// QueryDonations lists donations newest first.
func QueryDonations(ctx context.Context, query GetDonationsQuery, deps GetDonationsDeps) (GetDonationsResult, error) {
	list, err := deps.DonationStore.List(ctx, query.Page.PageSize, query.Page.Offset())
	if err != nil {
		return GetDonationsResult{}, fmt.Errorf("list donations: %w", err)
	}
	total, err := deps.DonationStore.Count(ctx)
	if err != nil {
		return GetDonationsResult{}, fmt.Errorf("count donations: %w", err)
	}
	out := make([]DonationView, 0, len(list))
	for _, d := range list {
		d.Image = publicURL(deps.Resolver, d.Image)
		out = append(out, DonationView{Donation: d, Amount: d.AmountString()})
	}
	return GetDonationsResult{
		Donations: out,
		Info:      listutil.NewPageInfo(query.Page, len(list), total),
	}, nil
}
