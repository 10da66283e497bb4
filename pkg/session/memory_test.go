package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("id-1", "tok-1")
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	uid := "u-1"
	got.UserID = &uid
	require.NoError(t, store.Update(ctx, got))

	got, err = store.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)

	require.NoError(t, store.Delete(ctx, "id-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateRotatesToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("id-1", "tok-old")
	require.NoError(t, store.Create(ctx, s))

	s.Token = "tok-new"
	require.NoError(t, store.Update(ctx, s))

	_, err := store.Get(ctx, "tok-old")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := store.Get(ctx, "tok-new")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
}

func TestMemoryStore_DeleteOtherByUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	uid := "u-1"

	for _, pair := range [][2]string{{"id-1", "tok-1"}, {"id-2", "tok-2"}, {"id-3", "tok-3"}} {
		s := New(pair[0], pair[1])
		s.UserID = &uid
		require.NoError(t, store.Create(ctx, s))
	}
	other := New("id-4", "tok-4")
	otherUID := "u-2"
	other.UserID = &otherUID
	require.NoError(t, store.Create(ctx, other))

	require.NoError(t, store.DeleteOtherByUser(ctx, uid, "id-2"))

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "tok-2")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "tok-3")
	assert.ErrorIs(t, err, ErrNotFound)
	// Sessions of other users are untouched.
	_, err = store.Get(ctx, "tok-4")
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteStartedBefore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	old := New("id-old", "tok-old")
	old.StartedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Create(ctx, old))

	fresh := New("id-new", "tok-new")
	require.NoError(t, store.Create(ctx, fresh))

	n, err := store.DeleteStartedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Touch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("id-1", "tok-1")
	s.StartedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Create(ctx, s))

	now := time.Now().UTC()
	require.NoError(t, store.Touch(ctx, "id-1", now))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.StartedAt.Equal(now))

	assert.ErrorIs(t, store.Touch(ctx, "missing", now), ErrNotFound)
}
