package member

import (
	"context"

	domain "directory/internal/domain/member"
)

// Store persists Member records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	GetByPhone(ctx context.Context, phone string) (domain.Member, error)
	ListByFamily(ctx context.Context, familyNo string) ([]domain.Member, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
}

// ListFilter carries the server-side predicates and row window for List/Count.
// Search matches name, surname, city and occupation case-insensitively.
// Genders is an exact (case-insensitive) set; empty means no restriction.
type ListFilter struct {
	Limit      int
	Offset     int
	Search     string
	Genders    []string
	Profession string
}
