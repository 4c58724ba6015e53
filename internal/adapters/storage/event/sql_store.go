package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/event"
)

const columns = "id, title, description, venue, starts_at, ends_at, organizer, contact_phone, image, created_at"

type row struct {
	ID           string  `db:"id"`
	Title        string  `db:"title"`
	Description  string  `db:"description"`
	Venue        string  `db:"venue"`
	StartsAt     string  `db:"starts_at"`
	EndsAt       *string `db:"ends_at"`
	Organizer    string  `db:"organizer"`
	ContactPhone string  `db:"contact_phone"`
	Image        *string `db:"image"`
	CreatedAt    string  `db:"created_at"`
}

func (r row) toDomain() (domain.Event, error) {
	e := domain.Event{
		ID: r.ID, Title: r.Title, Description: r.Description, Venue: r.Venue,
		Organizer: r.Organizer, ContactPhone: r.ContactPhone,
	}
	var err error
	if e.StartsAt, err = storage.ParseTime(r.StartsAt); err != nil {
		return domain.Event{}, err
	}
	if e.CreatedAt, err = storage.ParseTime(r.CreatedAt); err != nil {
		return domain.Event{}, err
	}
	if r.EndsAt != nil {
		end, err := storage.ParseTime(*r.EndsAt)
		if err != nil {
			return domain.Event{}, err
		}
		e.EndsAt = &end
	}
	if r.Image != nil {
		e.Image = *r.Image
	}
	return e, nil
}

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new event store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Insert writes a new event without an image.
// PRE: e has been validated and has an ID
func (s *SQLStore) Insert(ctx context.Context, e domain.Event) error {
	var endsAt *string
	if e.EndsAt != nil {
		v := storage.FormatTime(*e.EndsAt)
		endsAt = &v
	}
	query := s.db.Rebind("INSERT INTO event (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)")
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Venue, storage.FormatTime(e.StartsAt), endsAt,
		e.Organizer, e.ContactPhone, storage.FormatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// SetImage patches the stored image path.
// POST: Returns an error wrapping storage.ErrNotFound when id does not exist
func (s *SQLStore) SetImage(ctx context.Context, id, path string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE event SET image = ? WHERE id = ?"), path, id)
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	return storage.CheckAffected(n, err, "event "+id)
}

// GetByID retrieves an event.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, s.db.Rebind("SELECT "+columns+" FROM event WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return r.toDomain()
}

func whereClause(filter ListFilter) (string, []any) {
	if filter.EndingAfter.IsZero() {
		return "", nil
	}
	cutoff := storage.FormatTime(filter.EndingAfter)
	return " WHERE COALESCE(ends_at, starts_at) >= ?", []any{cutoff}
}

// List returns events by start time. Upcoming filters list soonest first, otherwise newest first.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	where, args := whereClause(filter)
	order := " ORDER BY starts_at DESC, id ASC"
	if !filter.EndingAfter.IsZero() {
		order = " ORDER BY starts_at ASC, id ASC"
	}
	limit, offset := storage.Window(filter.Limit, filter.Offset, 100)
	args = append(args, limit, offset)

	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM event" + where + order + " LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]domain.Event, 0, len(rs))
	for _, r := range rs {
		e, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Count returns the number of events matching filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, s.db.Rebind("SELECT COUNT(*) FROM event"+where), args...); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
