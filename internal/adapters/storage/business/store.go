package business

import (
	"context"

	domain "directory/internal/domain/business"
)

// Store persists Business listings.
type Store interface {
	Insert(ctx context.Context, b domain.Business) error
	SetImages(ctx context.Context, id, cover string, images []string) error
	GetByID(ctx context.Context, id string) (domain.Business, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Business, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter selects listings. Search matches name, description and city; Category is exact.
type ListFilter struct {
	Limit    int
	Offset   int
	Search   string
	Category string
	OwnerID  string
}
