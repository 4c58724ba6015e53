package hostel

import (
	"context"

	domain "directory/internal/domain/hostel"
)

// Store persists hostel applications.
type Store interface {
	Insert(ctx context.Context, a domain.Application) error
	SetDocuments(ctx context.Context, id string, docs map[string]string) error
	GetByID(ctx context.Context, id string) (domain.Application, error)
	List(ctx context.Context, limit, offset int) ([]domain.Application, error)
}
