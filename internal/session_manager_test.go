package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/session"
)

func TestSessionManager_StartAndResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm := NewSessionManager(session.NewMemoryStore())

	w := httptest.NewRecorder()
	sess, err := sm.Start(ctx, w)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.NotEmpty(t, sess.Token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, defaultSessionCookieName, cookies[0].Name)
	assert.Equal(t, sess.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	got, err := sm.Resume(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestSessionManager_ResumeNoCookie(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager(session.NewMemoryStore())

	got, err := sm.Resume(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionManager_ResumeExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store, WithSessionMaxIdle(30*time.Minute))

	sess := session.New("sid-1", "tok-1")
	sess.StartedAt = time.Now().UTC().Add(-999 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: defaultSessionCookieName, Value: "tok-1"})

	got, err := sm.Resume(ctx, r)
	assert.ErrorIs(t, err, session.ErrExpired)
	require.NotNil(t, got)
	assert.Equal(t, "sid-1", got.ID)
}

func TestSessionManager_Extend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	sess := session.New("sid-1", "tok-1")
	sess.StartedAt = time.Now().UTC().Add(-20 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	require.NoError(t, sm.Extend(ctx, sess))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), got.StartedAt, time.Second)
}

func TestSessionManager_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	sess := session.New("sid-1", "tok-1")
	require.NoError(t, store.Create(ctx, sess))

	w := httptest.NewRecorder()
	require.NoError(t, sm.Destroy(ctx, w, sess))

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionManager_DeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store, WithSessionMaxIdle(30*time.Minute))

	old := session.New("sid-old", "tok-old")
	old.StartedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.Create(ctx, old))
	require.NoError(t, store.Create(ctx, session.New("sid-new", "tok-new")))

	n, err := sm.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
