package member

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/storagetest"
	domain "directory/internal/domain/member"
)

func seed(t *testing.T, s *SQLStore, members ...domain.Member) {
	t.Helper()
	for _, m := range members {
		require.NoError(t, s.Save(context.Background(), m))
	}
}

func sample() []domain.Member {
	return []domain.Member{
		{ID: "m1", Name: "Ravi", Surname: "Patel", Gender: domain.Opt("Male"), City: domain.Opt("Surat"), Occupation: domain.Opt("Engineer"), Email: domain.Opt("ravi@example.org"), Mobile: domain.Opt("9000000001"), FamilyNo: domain.Opt("F1"), Relationship: domain.Opt("Self")},
		{ID: "m2", Name: "Meera", Surname: "Patel", Gender: domain.Opt("Female"), City: domain.Opt("Mumbai"), Occupation: domain.Opt("Doctor"), FamilyNo: domain.Opt("F1"), Relationship: domain.Opt("Wife")},
		{ID: "m3", Name: "Anil", Surname: "Desai", Gender: domain.Opt("male"), Occupation: domain.Opt("Software engineer"), Mobile2: domain.Opt("9000000003")},
		{ID: "m4", Name: "Kavya", Surname: "Shah", City: domain.Opt("Pune")},
		{ID: "m5", Name: "100%", Surname: "Zaveri"},
	}
}

// TestSQLStore_ListOrderAndWindow verifies surname ordering with id tie-break and LIMIT/OFFSET windows.
func TestSQLStore_ListOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	seed(t, s, sample()...)

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	var ids []string
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m3", "m1", "m2", "m4", "m5"}, ids)

	page, err := s.List(ctx, ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "m2", page[0].ID)
	assert.Equal(t, "m4", page[1].ID)

	total, err := s.Count(ctx, ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

// TestSQLStore_Predicates verifies search, gender set and profession filters.
func TestSQLStore_Predicates(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	seed(t, s, sample()...)

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"search surname", ListFilter{Search: "patel"}, []string{"m1", "m2"}},
		{"search city", ListFilter{Search: "PUNE"}, []string{"m4"}},
		{"search occupation", ListFilter{Search: "doctor"}, []string{"m2"}},
		{"gender set case-insensitive", ListFilter{Genders: []string{"Male"}}, []string{"m3", "m1"}},
		{"both genders", ListFilter{Genders: []string{"male", "female"}}, []string{"m3", "m1", "m2"}},
		{"profession substring", ListFilter{Profession: "engineer"}, []string{"m3", "m1"}},
		{"combined", ListFilter{Search: "patel", Profession: "engineer"}, []string{"m1"}},
		{"literal percent", ListFilter{Search: "%"}, []string{"m5"}},
		{"no match", ListFilter{Search: "nobody"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.want, ids)

			n, err := s.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

// TestSQLStore_Lookups verifies id, email, phone and family lookups.
func TestSQLStore_Lookups(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	seed(t, s, sample()...)

	m, err := s.GetByID(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, "Meera", m.Name)
	assert.Equal(t, "Mumbai", domain.Str(m.City))
	assert.Nil(t, m.DateOfBirth)

	m, err = s.GetByEmail(ctx, " RAVI@example.org")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	m, err = s.GetByPhone(ctx, "9000000003")
	require.NoError(t, err)
	assert.Equal(t, "m3", m.ID, "secondary mobile should match")

	fam, err := s.ListByFamily(ctx, "F1")
	require.NoError(t, err)
	assert.Len(t, fam, 2)

	_, err = s.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "err = %v", err)
	_, err = s.GetByPhone(ctx, "000")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "err = %v", err)
}

// TestSQLStore_SaveUpserts verifies Save updates an existing row and clears nulled fields.
func TestSQLStore_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	seed(t, s, sample()[0])

	updated := sample()[0]
	updated.City = nil
	updated.ProfilePicture = domain.Opt("profiles/m1.jpg")
	require.NoError(t, s.Save(ctx, updated))

	got, err := s.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.City)
	assert.Equal(t, "profiles/m1.jpg", domain.Str(got.ProfilePicture))

	require.NoError(t, s.Delete(ctx, "m1"))
	_, err = s.GetByID(ctx, "m1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestSQLStore_QueryFailure verifies driver errors are wrapped and returned.
func TestSQLStore_QueryFailure(t *testing.T) {
	db, mock := storagetest.Mock(t)
	s := NewSQLStore(db)
	boom := fmt.Errorf("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM member").WillReturnError(boom)
	_, err := s.List(context.Background(), ListFilter{Genders: []string{"male"}})
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)
	_, err = s.Count(context.Background(), ListFilter{})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLStore_ListArgs verifies the gender set expands into one bind per value.
func TestSQLStore_ListArgs(t *testing.T) {
	db, mock := storagetest.Mock(t)
	s := NewSQLStore(db)

	mock.ExpectQuery(`LOWER\(gender\) IN \(\?, \?\)`).
		WithArgs("male", "female", 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "surname"}).AddRow("m1", "A", "B"))

	got, err := s.List(context.Background(), ListFilter{Genders: []string{"Male", "Female"}, Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
	assert.Nil(t, got[0].Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}
