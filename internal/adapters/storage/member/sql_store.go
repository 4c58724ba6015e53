package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/storage"
	domain "directory/internal/domain/member"
)

const columns = "id, name, surname, gender, date_of_birth, blood_group, marital_status, mobile, mobile2, email, landline, " +
	"residential_address, office_address, city, occupation, education, family_no, relationship, profile_picture"

// row mirrors the member table.
type row struct {
	ID                 string  `db:"id"`
	Name               string  `db:"name"`
	Surname            string  `db:"surname"`
	Gender             *string `db:"gender"`
	DateOfBirth        *string `db:"date_of_birth"`
	BloodGroup         *string `db:"blood_group"`
	MaritalStatus      *string `db:"marital_status"`
	Mobile             *string `db:"mobile"`
	Mobile2            *string `db:"mobile2"`
	Email              *string `db:"email"`
	Landline           *string `db:"landline"`
	ResidentialAddress *string `db:"residential_address"`
	OfficeAddress      *string `db:"office_address"`
	City               *string `db:"city"`
	Occupation         *string `db:"occupation"`
	Education          *string `db:"education"`
	FamilyNo           *string `db:"family_no"`
	Relationship       *string `db:"relationship"`
	ProfilePicture     *string `db:"profile_picture"`
}

func (r row) toDomain() domain.Member {
	return domain.Member{
		ID: r.ID, Name: r.Name, Surname: r.Surname,
		Gender: r.Gender, DateOfBirth: r.DateOfBirth, BloodGroup: r.BloodGroup, MaritalStatus: r.MaritalStatus,
		Mobile: r.Mobile, Mobile2: r.Mobile2, Email: r.Email, Landline: r.Landline,
		ResidentialAddress: r.ResidentialAddress, OfficeAddress: r.OfficeAddress,
		City: r.City, Occupation: r.Occupation, Education: r.Education,
		FamilyNo: r.FamilyNo, Relationship: r.Relationship, ProfilePicture: r.ProfilePicture,
	}
}

func toRows(rs []row) []domain.Member {
	out := make([]domain.Member, len(rs))
	for i, r := range rs {
		out[i] = r.toDomain()
	}
	return out
}

// SQLStore implements Store over any sqlx-compatible driver.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new member store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) getOne(ctx context.Context, where string, arg any) (domain.Member, error) {
	var r row
	query := s.db.Rebind("SELECT " + columns + " FROM member WHERE " + where + " ORDER BY id LIMIT 1")
	err := sqlx.GetContext(ctx, s.db, &r, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	return r.toDomain(), nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a Member by email, ignoring case.
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	return s.getOne(ctx, "LOWER(email) = LOWER(?)", strings.TrimSpace(email))
}

// GetByPhone retrieves a Member whose primary or secondary mobile equals phone.
func (s *SQLStore) GetByPhone(ctx context.Context, phone string) (domain.Member, error) {
	var r row
	phone = strings.TrimSpace(phone)
	query := s.db.Rebind("SELECT " + columns + " FROM member WHERE mobile = ? OR mobile2 = ? ORDER BY id LIMIT 1")
	err := sqlx.GetContext(ctx, s.db, &r, query, phone, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member by phone: %w", err)
	}
	return r.toDomain(), nil
}

// ListByFamily returns every member sharing familyNo, in id order.
func (s *SQLStore) ListByFamily(ctx context.Context, familyNo string) ([]domain.Member, error) {
	var rs []row
	query := s.db.Rebind("SELECT " + columns + " FROM member WHERE family_no = ? ORDER BY id")
	if err := sqlx.SelectContext(ctx, s.db, &rs, query, familyNo); err != nil {
		return nil, fmt.Errorf("list family %s: %w", familyNo, err)
	}
	return toRows(rs), nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any, error) {
	where := " WHERE 1=1"
	var args []any

	if q := strings.TrimSpace(filter.Search); q != "" {
		term := "%" + escapeLike(strings.ToLower(q)) + "%"
		where += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(surname) LIKE ? ESCAPE '\'` +
			` OR LOWER(COALESCE(city, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(occupation, '')) LIKE ? ESCAPE '\')`
		args = append(args, term, term, term, term)
	}
	if len(filter.Genders) > 0 {
		genders := make([]string, len(filter.Genders))
		for i, g := range filter.Genders {
			genders[i] = strings.ToLower(strings.TrimSpace(g))
		}
		clause, inArgs, err := sqlx.In(" AND LOWER(gender) IN (?)", genders)
		if err != nil {
			return "", nil, err
		}
		where += clause
		args = append(args, inArgs...)
	}
	if p := strings.TrimSpace(filter.Profession); p != "" {
		where += ` AND LOWER(COALESCE(occupation, '')) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(p))+"%")
	}
	return where, args, nil
}

// Count returns the total number of members matching the filter.
// POST: Returns count >= 0
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args, err := listWhereClause(filter)
	if err != nil {
		return 0, err
	}
	var count int
	if err := sqlx.GetContext(ctx, s.db, &count, s.db.Rebind("SELECT COUNT(*) FROM member"+where), args...); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// List retrieves the filter's row window ordered by surname, then id.
// PRE: filter.Offset >= 0
// POST: Returns at most filter.Limit entities (1000 when unset)
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args, err := listWhereClause(filter)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query := "SELECT " + columns + " FROM member" + where + " ORDER BY surname ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	var rs []row
	if err := sqlx.SelectContext(ctx, s.db, &rs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return toRows(rs), nil
}

// Save persists a Member (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, m domain.Member) error {
	fields := strings.Split(columns, ", ")
	updates := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		updates = append(updates, f+"=excluded."+f)
	}
	query := fmt.Sprintf(
		"INSERT INTO member (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		columns,
		strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", "),
		strings.Join(updates, ", "),
	)
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		m.ID, m.Name, m.Surname, m.Gender, m.DateOfBirth, m.BloodGroup, m.MaritalStatus,
		m.Mobile, m.Mobile2, m.Email, m.Landline, m.ResidentialAddress, m.OfficeAddress,
		m.City, m.Occupation, m.Education, m.FamilyNo, m.Relationship, m.ProfilePicture,
	)
	if err != nil {
		return fmt.Errorf("save member %s: %w", m.ID, err)
	}
	return nil
}

// Delete removes a Member.
// POST: Entity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM member WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete member %s: %w", id, err)
	}
	return nil
}
