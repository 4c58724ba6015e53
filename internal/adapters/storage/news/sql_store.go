package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/news"
)

const columns = "id, title, body, author, published_at, images"

type row struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Body        string `db:"body"`
	Author      string `db:"author"`
	PublishedAt string `db:"published_at"`
	Images      string `db:"images"`
}

func (r row) toDomain() (domain.Article, error) {
	a := domain.Article{ID: r.ID, Title: r.Title, Body: r.Body, Author: r.Author}
	var err error
	if a.PublishedAt, err = storage.ParseTime(r.PublishedAt); err != nil {
		return domain.Article{}, err
	}
	if a.Images, err = storage.DecodeList(r.Images); err != nil {
		return domain.Article{}, err
	}
	return a, nil
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new news store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Save upserts an article.
// PRE: a has been validated
func (s *SQLStore) Save(ctx context.Context, a domain.Article) error {
	query := s.db.Rebind(`INSERT INTO news_article (` + columns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, body=excluded.body, author=excluded.author,
		published_at=excluded.published_at, images=excluded.images`)
	_, err := s.db.ExecContext(ctx, query, a.ID, a.Title, a.Body, a.Author, storage.FormatTime(a.PublishedAt), storage.EncodeList(a.Images))
	if err != nil {
		return fmt.Errorf("save article %s: %w", a.ID, err)
	}
	return nil
}

// GetByID retrieves an article.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Article, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM news_article WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}
	return r.toDomain()
}

// List returns articles newest first.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	limit, offset = storage.Window(limit, offset, 50)
	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM news_article ORDER BY published_at DESC, id ASC LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]domain.Article, 0, len(rs))
	for _, r := range rs {
		a, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Count returns the number of articles.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, "SELECT COUNT(*) FROM news_article"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Delete removes an article.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM news_article WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}
