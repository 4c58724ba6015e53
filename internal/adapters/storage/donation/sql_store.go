package donation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/donation"
)

const columns = "id, donor_name, member_id, purpose, amount_cents, description, phone, image, created_at"

type row struct {
	ID          string  `db:"id"`
	DonorName   string  `db:"donor_name"`
	MemberID    *string `db:"member_id"`
	Purpose     string  `db:"purpose"`
	AmountCents int64   `db:"amount_cents"`
	Description string  `db:"description"`
	Phone       string  `db:"phone"`
	Image       *string `db:"image"`
	CreatedAt   string  `db:"created_at"`
}

func (r row) toDomain() (domain.Donation, error) {
	d := domain.Donation{
		ID: r.ID, DonorName: r.DonorName, MemberID: r.MemberID, Purpose: r.Purpose,
		AmountCents: r.AmountCents, Description: r.Description, Phone: r.Phone,
	}
	if r.Image != nil {
		d.Image = *r.Image
	}
	var err error
	d.CreatedAt, err = storage.ParseTime(r.CreatedAt)
	return d, err
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new donation store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Insert writes a donation without a receipt image.
func (s *SQLStore) Insert(ctx context.Context, d domain.Donation) error {
	query := s.db.Rebind("INSERT INTO donation (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?)")
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.DonorName, d.MemberID, d.Purpose, d.AmountCents, d.Description, d.Phone, storage.FormatTime(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// SetImage patches the receipt image path.
func (s *SQLStore) SetImage(ctx context.Context, id, path string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE donation SET image = ? WHERE id = ?"), path, id)
	if err != nil {
		return fmt.Errorf("update donation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	return storage.CheckAffected(n, err, "donation "+id)
}

// GetByID retrieves a donation.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Donation, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM donation WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Donation{}, fmt.Errorf("donation %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Donation{}, fmt.Errorf("get donation: %w", err)
	}
	return r.toDomain()
}

// List returns donations newest first.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]domain.Donation, error) {
	limit, offset = storage.Window(limit, offset, 100)
	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM donation ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	out := make([]domain.Donation, 0, len(rs))
	for _, r := range rs {
		d, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Count returns the number of donations.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, "SELECT COUNT(*) FROM donation"); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}
