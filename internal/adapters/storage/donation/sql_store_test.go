package donation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory/internal/adapters/storage"
	"directory/internal/adapters/storage/storagetest"
	domain "directory/internal/domain/donation"
)

func TestSQLStore_Donations(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(storagetest.OpenDB(t))
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	member := "m1"

	require.NoError(t, s.Insert(ctx, domain.Donation{ID: "d1", DonorName: "Shah family", MemberID: &member, Purpose: "Hall", AmountCents: 500050, CreatedAt: base}))
	require.NoError(t, s.Insert(ctx, domain.Donation{ID: "d2", DonorName: "Anonymous", Purpose: "Library", AmountCents: 100, CreatedAt: base.Add(time.Hour)}))

	list, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "d2", list[0].ID, "newest first")
	assert.Nil(t, list[0].MemberID)
	assert.Equal(t, "m1", *list[1].MemberID)
	assert.Equal(t, int64(500050), list[1].AmountCents)

	require.NoError(t, s.SetImage(ctx, "d1", "donations/d1.png"))
	d, err := s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "donations/d1.png", d.Image)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, errors.Is(s.SetImage(ctx, "d9", "x"), storage.ErrNotFound))
}
