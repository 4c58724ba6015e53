package projections

import (
	"context"
	"fmt"
	"time"

	"directory/internal/adapters/storage/event"
	"directory/internal/application/listutil"
	domainEvent "directory/internal/domain/event"
)

// GetEventsQuery carries query parameters.
type GetEventsQuery struct {
	UpcomingOnly bool
	Now          time.Time // cutoff for UpcomingOnly; zero selects time.Now
	Page         listutil.PageParams
}

// GetEventsResult carries the query result.
type GetEventsResult struct {
	Events []domainEvent.Event `json:"events"`
	Info   listutil.PageInfo   `json:"page_info"`
}

// GetEventsDeps holds dependencies for the event queries.
type GetEventsDeps struct {
	EventStore EventStore
	Resolver   URLResolver
}

// QueryEvents lists events.
// PRE: Page.PageSize > 0
// POST: UpcomingOnly lists events not yet ended, soonest first; otherwise newest first
func QueryEvents(ctx context.Context, query GetEventsQuery, deps GetEventsDeps) (GetEventsResult, error) {
	filter := event.ListFilter{Limit: query.Page.PageSize, Offset: query.Page.Offset()}
	if query.UpcomingOnly {
		filter.EndingAfter = query.Now
		if filter.EndingAfter.IsZero() {
			filter.EndingAfter = time.Now()
		}
	}
	list, err := deps.EventStore.List(ctx, filter)
	if err != nil {
		return GetEventsResult{}, fmt.Errorf("list events: %w", err)
	}
	total, err := deps.EventStore.Count(ctx, filter)
	if err != nil {
		return GetEventsResult{}, fmt.Errorf("count events: %w", err)
	}
	out := make([]domainEvent.Event, 0, len(list))
	for _, e := range list {
		e.Image = publicURL(deps.Resolver, e.Image)
		out = append(out, e)
	}
	return GetEventsResult{
		Events: out,
		Info:   listutil.NewPageInfo(query.Page, len(list), total),
	}, nil
}

// QueryEvent retrieves one event.
// POST: Returns storage.ErrNotFound for an unknown id
func QueryEvent(ctx context.Context, id string, deps GetEventsDeps) (domainEvent.Event, error) {
	e, err := deps.EventStore.GetByID(ctx, id)
	if err != nil {
		return domainEvent.Event{}, err
	}
	e.Image = publicURL(deps.Resolver, e.Image)
	return e, nil
}
