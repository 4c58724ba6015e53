package hostel

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/storagetest"
	domain "directory/internal/domain/hostel"
)

func TestSQLStore_InsertAndSetDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, domain.Application{ID: "h1", ApplicantName: "Kiran", Phone: "9", Institution: "MSU", CreatedAt: now}))

	a, err := s.GetByID(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, a.Documents)

	docs := map[string]string{domain.FieldPhoto: "h1/photo.jpg", domain.FieldMarksheet: "h1/marksheet.pdf"}
	require.NoError(t, s.SetDocuments(ctx, "h1", docs))

	a, err = s.GetByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, docs, a.Documents)

	list, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, s.SetDocuments(ctx, "h2", docs), storage.ErrNotFound)
}

// TestSQLStore_SetDocumentsZeroRows verifies a zero-row update maps to ErrNotFound, not success.
func TestSQLStore_SetDocumentsZeroRows(t *testing.T) {
	db, mock := storagetest.Mock(t)
	s := NewSQLStore(db)

	mock.ExpectExec("UPDATE hostel_application SET documents").
		WithArgs(`{}`, "h1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.SetDocuments(context.Background(), "h1", nil), storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
