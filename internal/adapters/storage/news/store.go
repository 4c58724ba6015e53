package news

import (
	"context"

	domain "directory/internal/domain/news"
)

// Store persists news articles.
type Store interface {
	Save(ctx context.Context, a domain.Article) error
	GetByID(ctx context.Context, id string) (domain.Article, error)
	List(ctx context.Context, limit, offset int) ([]domain.Article, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
