package hostel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/hostel"
)

const columns = "id, applicant_name, member_id, guardian_name, phone, email, institution, course, documents, created_at"

type row struct {
	ID            string  `db:"id"`
	ApplicantName string  `db:"applicant_name"`
	MemberID      *string `db:"member_id"`
	GuardianName  string  `db:"guardian_name"`
	Phone         string  `db:"phone"`
	Email         string  `db:"email"`
	Institution   string  `db:"institution"`
	Course        string  `db:"course"`
	Documents     string  `db:"documents"`
	CreatedAt     string  `db:"created_at"`
}

func (r row) toDomain() (domain.Application, error) {
	a := domain.Application{
		ID: r.ID, ApplicantName: r.ApplicantName, MemberID: r.MemberID, GuardianName: r.GuardianName,
		Phone: r.Phone, Email: r.Email, Institution: r.Institution, Course: r.Course,
	}
	var err error
	if a.Documents, err = storage.DecodeMap(r.Documents); err != nil {
		return domain.Application{}, fmt.Errorf("application %s: %w", r.ID, err)
	}
	if a.CreatedAt, err = storage.ParseTime(r.CreatedAt); err != nil {
		return domain.Application{}, err
	}
	return a, nil
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new hostel application store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Insert writes an application with no documents.
func (s *SQLStore) Insert(ctx context.Context, a domain.Application) error {
	query := s.db.Rebind("INSERT INTO hostel_application (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, '{}', ?)")
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.ApplicantName, a.MemberID, a.GuardianName, a.Phone, a.Email, a.Institution, a.Course,
		storage.FormatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert hostel application: %w", err)
	}
	return nil
}

// SetDocuments replaces the document map in a single update.
func (s *SQLStore) SetDocuments(ctx context.Context, id string, docs map[string]string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE hostel_application SET documents = ? WHERE id = ?"),
		storage.EncodeMap(docs), id)
	if err != nil {
		return fmt.Errorf("update hostel application %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	return storage.CheckAffected(n, err, "hostel application "+id)
}

// GetByID retrieves an application.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Application, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM hostel_application WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, fmt.Errorf("hostel application %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Application{}, fmt.Errorf("get hostel application: %w", err)
	}
	return r.toDomain()
}

// List returns applications newest first.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	limit, offset = storage.Window(limit, offset, 100)
	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM hostel_application ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list hostel applications: %w", err)
	}
	out := make([]domain.Application, 0, len(rs))
	for _, r := range rs {
		a, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
