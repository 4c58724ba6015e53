package event

import (
	"context"
	"time"

	domain "directory/internal/domain/event"
)

// Store persists Event listings.
type Store interface {
	Insert(ctx context.Context, e domain.Event) error
	SetImage(ctx context.Context, id, path string) error
	GetByID(ctx context.Context, id string) (domain.Event, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter selects events. A non-zero EndingAfter keeps events that have not finished by then.
type ListFilter struct {
	Limit       int
	Offset      int
	EndingAfter time.Time
}
