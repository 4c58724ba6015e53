package doctor

import (
	"context"

	domain "directory/internal/domain/doctor"
)

// Store persists the doctor directory.
type Store interface {
	Save(ctx context.Context, d domain.Doctor) error
	GetByID(ctx context.Context, id string) (domain.Doctor, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Doctor, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Specialties(ctx context.Context) ([]string, error)
}

// ListFilter selects doctors. Specialty is matched case-insensitively.
type ListFilter struct {
	Limit     int
	Offset    int
	Specialty string
}
