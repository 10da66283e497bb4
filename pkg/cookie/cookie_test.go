package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// roundTrip replays the cookies written to w onto a fresh request.
func roundTrip(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()
	m := New()

	w := httptest.NewRecorder()
	m.Set(w, "name", "value", 60)

	r := roundTrip(t, w)
	v, err := m.Get(r, "name")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = m.Get(r, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()
	m := New(WithSecret(testSecret))

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "tok", "payload", 60))

	r := roundTrip(t, w)
	v, err := m.GetSigned(r, "tok")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
}

func TestManager_Signed_Tampered(t *testing.T) {
	t.Parallel()
	m := New(WithSecret(testSecret))

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "tok", "payload", 60))

	c := w.Result().Cookies()[0]
	c.Value = "x" + c.Value[1:]

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)

	_, err := m.GetSigned(r, "tok")
	assert.ErrorIs(t, err, ErrBadSig)
}

func TestManager_Signed_NoSecret(t *testing.T) {
	t.Parallel()
	m := New()

	err := m.SetSigned(httptest.NewRecorder(), "tok", "payload", 60)
	assert.ErrorIs(t, err, ErrNoSecret)

	// A short secret is rejected, not silently used.
	m = New(WithSecret("short"))
	err = m.SetSigned(httptest.NewRecorder(), "tok", "payload", 60)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()
	m := New(WithSecret(testSecret))

	w := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(w, "data", "secret text", 60))

	// Ciphertext must not leak the plaintext.
	assert.NotContains(t, w.Result().Cookies()[0].Value, "secret")

	r := roundTrip(t, w)
	v, err := m.GetEncrypted(r, "data")
	require.NoError(t, err)
	assert.Equal(t, "secret text", v)
}

func TestManager_Notices(t *testing.T) {
	t.Parallel()
	m := New(WithSecret(testSecret))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, m.PushNotice(w, r, Notice{Severity: SeverityError, Message: "access denied"}))

	// Second push on the next request appends.
	r2 := roundTrip(t, w)
	w2 := httptest.NewRecorder()
	require.NoError(t, m.PushNotice(w2, r2, Notice{Severity: SeverityInfo, Message: "hello"}))

	r3 := roundTrip(t, w2)
	w3 := httptest.NewRecorder()
	notices, err := m.PopNotices(w3, r3)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.Equal(t, "access denied", notices[0].Message)
	assert.Equal(t, SeverityInfo, notices[1].Severity)

	// Pop clears the queue.
	found := false
	for _, c := range w3.Result().Cookies() {
		if c.Name == noticeCookie && c.MaxAge < 0 {
			found = true
		}
	}
	assert.True(t, found, "notice cookie not cleared")
}

func TestManager_Notices_Malformed(t *testing.T) {
	t.Parallel()
	m := New(WithSecret(testSecret))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: noticeCookie, Value: "garbage"})

	w := httptest.NewRecorder()
	notices, err := m.PopNotices(w, r)
	require.NoError(t, err)
	assert.Empty(t, notices)
}
