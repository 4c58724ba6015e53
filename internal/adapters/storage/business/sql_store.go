package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/business"
)

const columns = "id, owner_member_id, name, category, description, phone, email, website, address, city, cover_image, images, created_at"

type row struct {
	ID            string  `db:"id"`
	OwnerMemberID string  `db:"owner_member_id"`
	Name          string  `db:"name"`
	Category      string  `db:"category"`
	Description   string  `db:"description"`
	Phone         string  `db:"phone"`
	Email         string  `db:"email"`
	Website       string  `db:"website"`
	Address       string  `db:"address"`
	City          string  `db:"city"`
	CoverImage    *string `db:"cover_image"`
	Images        string  `db:"images"`
	CreatedAt     string  `db:"created_at"`
}

func (r row) toDomain() (domain.Business, error) {
	b := domain.Business{
		ID: r.ID, OwnerMemberID: r.OwnerMemberID, Name: r.Name, Category: r.Category,
		Description: r.Description, Phone: r.Phone, Email: r.Email, Website: r.Website,
		Address: r.Address, City: r.City,
	}
	if r.CoverImage != nil {
		b.CoverImage = *r.CoverImage
	}
	var err error
	if b.Images, err = storage.DecodeList(r.Images); err != nil {
		return domain.Business{}, fmt.Errorf("business %s: %w", r.ID, err)
	}
	if b.CreatedAt, err = storage.ParseTime(r.CreatedAt); err != nil {
		return domain.Business{}, err
	}
	return b, nil
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new business store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Insert writes a listing without images.
// PRE: b has been validated and has an ID
func (s *SQLStore) Insert(ctx context.Context, b domain.Business) error {
	query := s.db.Rebind("INSERT INTO business (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, '[]', ?)")
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.OwnerMemberID, b.Name, b.Category, b.Description, b.Phone, b.Email,
		b.Website, b.Address, b.City, storage.FormatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// SetImages patches cover and gallery. An empty cover leaves the column NULL.
func (s *SQLStore) SetImages(ctx context.Context, id, cover string, images []string) error {
	var coverArg any
	if cover != "" {
		coverArg = cover
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE business SET cover_image = ?, images = ? WHERE id = ?"),
		coverArg, storage.EncodeList(images), id)
	if err != nil {
		return fmt.Errorf("update business %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	return storage.CheckAffected(n, err, "business "+id)
}

// GetByID retrieves a listing.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Business, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM business WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Business{}, fmt.Errorf("business %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Business{}, fmt.Errorf("get business: %w", err)
	}
	return r.toDomain()
}

func whereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if q := strings.TrimSpace(filter.Search); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		where += " AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(city) LIKE ?)"
		args = append(args, term, term, term)
	}
	if filter.Category != "" {
		where += " AND LOWER(category) = LOWER(?)"
		args = append(args, filter.Category)
	}
	if filter.OwnerID != "" {
		where += " AND owner_member_id = ?"
		args = append(args, filter.OwnerID)
	}
	return where, args
}

// List returns listings ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Business, error) {
	where, args := whereClause(filter)
	limit, offset := storage.Window(filter.Limit, filter.Offset, 100)
	args = append(args, limit, offset)

	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM business" + where + " ORDER BY name ASC, id ASC LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, args...); err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	out := make([]domain.Business, 0, len(rs))
	for _, r := range rs {
		b, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Count returns the number of listings matching filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, s.db.Rebind("SELECT COUNT(*) FROM business"+where), args...); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return n, nil
}
