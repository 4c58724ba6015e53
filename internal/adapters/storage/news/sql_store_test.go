package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/storagetest"
	domain "directory/internal/domain/news"
)

func TestSQLStore_News(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, domain.Article{ID: "n1", Title: "AGM", Body: "Agenda", PublishedAt: day}))
	require.NoError(t, s.Save(ctx, domain.Article{ID: "n2", Title: "Scholarships", Body: "Apply", PublishedAt: day.AddDate(0, 0, 2), Images: []string{"news/n2.jpg"}}))
	require.NoError(t, s.Save(ctx, domain.Article{ID: "n1", Title: "AGM (updated)", Body: "Agenda v2", PublishedAt: day}))

	list, err := s.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	assert.Equal(t, []string{"news/n2.jpg"}, list[0].Images)
	assert.Equal(t, "AGM (updated)", list[1].Title)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, "n1"))
	_, err = s.GetByID(ctx, "n1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
