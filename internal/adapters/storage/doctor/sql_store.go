package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/doctor"
)

const columns = "id, name, specialty, qualification, hospital, address, phone, email, image, member_id"

type row struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Specialty     string  `db:"specialty"`
	Qualification string  `db:"qualification"`
	Hospital      string  `db:"hospital"`
	Address       string  `db:"address"`
	Phone         string  `db:"phone"`
	Email         string  `db:"email"`
	Image         *string `db:"image"`
	MemberID      *string `db:"member_id"`
}

func (r row) toDomain() domain.Doctor {
	d := domain.Doctor{
		ID: r.ID, Name: r.Name, Specialty: r.Specialty, Qualification: r.Qualification,
		Hospital: r.Hospital, Address: r.Address, Phone: r.Phone, Email: r.Email, MemberID: r.MemberID,
	}
	if r.Image != nil {
		d.Image = *r.Image
	}
	return d
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new doctor store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Save upserts a doctor.
func (s *SQLStore) Save(ctx context.Context, d domain.Doctor) error {
	var image any
	if d.Image != "" {
		image = d.Image
	}
	query := s.db.Rebind(`INSERT INTO doctor (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, specialty=excluded.specialty,
		qualification=excluded.qualification, hospital=excluded.hospital, address=excluded.address,
		phone=excluded.phone, email=excluded.email, image=excluded.image, member_id=excluded.member_id`)
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Specialty, d.Qualification, d.Hospital, d.Address, d.Phone, d.Email, image, d.MemberID)
	if err != nil {
		return fmt.Errorf("save doctor %s: %w", d.ID, err)
	}
	return nil
}

// GetByID retrieves a doctor.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Doctor, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM doctor WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Doctor{}, fmt.Errorf("doctor %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Doctor{}, fmt.Errorf("get doctor: %w", err)
	}
	return r.toDomain(), nil
}

func whereClause(filter ListFilter) (string, []any) {
	if filter.Specialty == "" {
		return "", nil
	}
	return " WHERE LOWER(specialty) = LOWER(?)", []any{filter.Specialty}
}

// List returns doctors ordered by specialty then name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Doctor, error) {
	where, args := whereClause(filter)
	limit, offset := storage.Window(filter.Limit, filter.Offset, 100)
	args = append(args, limit, offset)

	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM doctor" + where + " ORDER BY specialty ASC, name ASC, id ASC LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, args...); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	out := make([]domain.Doctor, len(rs))
	for i, r := range rs {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Count returns the number of doctors matching filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, s.db.Rebind("SELECT COUNT(*) FROM doctor"+where), args...); err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

// Specialties returns the distinct specialties in alphabetical order.
func (s *SQLStore) Specialties(ctx context.Context) ([]string, error) {
	var out []string
	if err := sqlx.SelectContext(ctx, s.db, &out, "SELECT DISTINCT specialty FROM doctor ORDER BY specialty"); err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return out, nil
}
