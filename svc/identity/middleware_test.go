package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/svc/identity"
)

type stubAuthenticator map[string]identity.Session

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (identity.Session, error) {
	sess, ok := s[token]
	if !ok {
		return identity.Session{}, identity.ErrSessionNotFound
	}
	return sess, nil
}

func newMiddleware() *identity.Middleware {
	return identity.NewMiddleware(stubAuthenticator{
		"good": {Token: "good", UID: "uid-1", ExpiresAt: time.Now().Add(time.Hour)},
	})
}

var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(identity.UIDFromContext(r.Context())))
})

func withCookie(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: identity.DefaultCookieName, Value: token})
	return r
}

func TestMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	mw := newMiddleware()
	h := mw.Authenticate(whoami)

	t.Run("valid cookie puts session in context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/", nil), "good"))
		assert.Equal(t, "uid-1", rec.Body.String())
	})

	t.Run("invalid cookie is cleared", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/", nil), "stale"))

		assert.Empty(t, rec.Body.String())
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, identity.DefaultCookieName, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("no cookie is anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestMiddleware_RequireAuth(t *testing.T) {
	t.Parallel()

	mw := newMiddleware()
	h := mw.Authenticate(mw.RequireAuth(whoami))

	t.Run("browser is redirected to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("json client gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"Unauthorized"}}`, rec.Body.String())
	})

	t.Run("xhr gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed in passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/home", nil), "good"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "uid-1", rec.Body.String())
	})
}

func TestMiddleware_GuestOnly(t *testing.T) {
	t.Parallel()

	mw := newMiddleware()
	h := mw.Authenticate(mw.GuestOnly(whoami))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/login", nil), "good"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedirectToLogin(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	identity.RedirectToLogin(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestMiddleware_SetCookie(t *testing.T) {
	t.Parallel()

	mw := identity.NewMiddleware(stubAuthenticator{}, identity.WithCookieName("sid"), identity.WithSecureCookie(true))
	rec := httptest.NewRecorder()
	mw.SetCookie(rec, identity.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "tok", mw.Token(req))
}
