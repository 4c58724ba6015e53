package donation

import (
	"context"

	domain "directory/internal/domain/donation"
)

// Store persists Donation records.
type Store interface {
	Insert(ctx context.Context, d domain.Donation) error
	SetImage(ctx context.Context, id, path string) error
	GetByID(ctx context.Context, id string) (domain.Donation, error)
	List(ctx context.Context, limit, offset int) ([]domain.Donation, error)
	Count(ctx context.Context) (int, error)
}
