package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/storagetest"
	domain "directory/internal/domain/event"
)

func TestSQLStore_InsertPatchGet(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	start := time.Date(2025, 11, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	require.NoError(t, s.Insert(ctx, domain.Event{ID: "e1", Title: "Diwali Milan", StartsAt: start, EndsAt: &end, CreatedAt: start.Add(-48 * time.Hour)}))

	got, err := s.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "", got.Image, "insert stores no image")
	require.NotNil(t, got.EndsAt)
	assert.True(t, got.EndsAt.Equal(end))

	require.NoError(t, s.SetImage(ctx, "e1", "events/e1.jpg"))
	got, err = s.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "events/e1.jpg", got.Image)

	err = s.SetImage(ctx, "missing", "x")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "err = %v", err)
	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLStore_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	campEnd := now.Add(24 * time.Hour)

	for _, e := range []domain.Event{
		{ID: "past", Title: "Holi", StartsAt: now.Add(-90 * 24 * time.Hour)},
		{ID: "camp", Title: "Camp", StartsAt: now.Add(-24 * time.Hour), EndsAt: &campEnd},
		{ID: "next", Title: "AGM", StartsAt: now.Add(7 * 24 * time.Hour)},
	} {
		e.CreatedAt = now
		require.NoError(t, s.Insert(ctx, e))
	}

	upcoming, err := s.List(ctx, ListFilter{EndingAfter: now})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "camp", upcoming[0].ID)
	assert.Equal(t, "next", upcoming[1].ID)

	n, err := s.Count(ctx, ListFilter{EndingAfter: now})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "next", all[0].ID, "unfiltered list is newest first")
}
