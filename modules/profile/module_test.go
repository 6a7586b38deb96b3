package profile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profilemod "github.com/socialdash/dashboard/modules/profile"
	"github.com/socialdash/dashboard/svc/identity"
	"github.com/socialdash/dashboard/svc/profile"
)

type sessions map[string]string

func (s sessions) Authenticate(_ context.Context, token string) (identity.Session, error) {
	uid, ok := s[token]
	if !ok {
		return identity.Session{}, identity.ErrSessionNotFound
	}
	return identity.Session{Token: token, UID: uid, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type env struct {
	router   http.Handler
	profiles *profile.Service
}

func newEnv(t *testing.T) env {
	t.Helper()
	profiles := profile.NewService(profile.NewMemoryRepository())
	ctx := context.Background()
	require.NoError(t, profiles.Create(ctx, profile.Profile{
		UID: "uid-alice", UserID: 1, Username: "alice", DisplayName: "Alice", Email: "alice@example.com",
	}))
	require.NoError(t, profiles.Create(ctx, profile.Profile{
		UID: "uid-bob", UserID: 2, Username: "bob", DisplayName: "Bob", Email: "bob@example.com",
	}))

	guard := identity.NewMiddleware(sessions{"alice-token": "uid-alice"})
	r := chi.NewRouter()
	r.Use(guard.Authenticate)
	r.Mount("/", profilemod.New(profiles).Handle())
	return env{router: r, profiles: profiles}
}

func (e env) as(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: identity.DefaultCookieName, Value: "alice-token"})
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func viewOf(t *testing.T, rec *httptest.ResponseRecorder) profilemod.View {
	t.Helper()
	var body struct {
		Data profilemod.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

func TestLookup(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	t.Run("own profile includes email", func(t *testing.T) {
		rec := e.as(t, httptest.NewRequest(http.MethodGet, "/u/Alice", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		v := viewOf(t, rec)
		assert.True(t, v.IsOwner)
		assert.Equal(t, "alice@example.com", v.Email)
		assert.Equal(t, "A", v.Initial)
		assert.Equal(t, profile.AvatarColor("alice"), v.AvatarColor)
	})

	t.Run("other profile hides email", func(t *testing.T) {
		rec := e.as(t, httptest.NewRequest(http.MethodGet, "/profile/2", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		v := viewOf(t, rec)
		assert.Equal(t, "bob", v.Username)
		assert.False(t, v.IsOwner)
		assert.Empty(t, v.Email)
	})

	t.Run("missing profile is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, e.as(t, httptest.NewRequest(http.MethodGet, "/u/nobody", nil)).Code)
		assert.Equal(t, http.StatusNotFound, e.as(t, httptest.NewRequest(http.MethodGet, "/profile/99", nil)).Code)
	})
}

func patch(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("edits own profile", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, patch(`{"displayName":"Alice A.","bio":"hello","username":"Alice_2"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		v := viewOf(t, rec)
		assert.Equal(t, "Alice A.", v.DisplayName)
		assert.Equal(t, "hello", v.Bio)
		assert.Equal(t, "alice_2", v.Username)
	})

	t.Run("taken username is 422", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, patch(`{"username":"bob"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username"`)
	})

	t.Run("empty display name is 422", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, patch(`{"displayName":"  "}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"displayName"`)
	})
}

func TestUsernameStatus(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	tests := map[string]string{
		"alice": "unchanged",
		"bob":   "taken",
		"x":     "invalid",
		"carol": "available",
	}
	for candidate, want := range tests {
		rec := e.as(t, httptest.NewRequest(http.MethodGet, "/profile/username-status?username="+candidate, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"status":"`+want+`"}}`, rec.Body.String(), candidate)
	}
}

func multipartPicture(t *testing.T, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if data != nil {
		fw, err := w.CreateFormFile("picture", "me.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/picture", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := range 32 {
		for x := range 64 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPicture(t *testing.T) {
	t.Parallel()

	t.Run("upload stores a jpeg data url", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, multipartPicture(t, pngBytes(t), map[string]string{"cropX": "0", "cropY": "0", "scale": "1"}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "data:image/jpeg;base64,")

		p, err := e.profiles.ByUID(context.Background(), "uid-alice")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p.ProfilePicture, "data:image/jpeg;base64,"))

		rec = e.as(t, httptest.NewRequest(http.MethodDelete, "/profile/picture", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		p, _ = e.profiles.ByUID(context.Background(), "uid-alice")
		assert.Empty(t, p.ProfilePicture)
	})

	t.Run("non-image is 422", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, multipartPicture(t, []byte("not an image"), nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"picture"`)
	})

	t.Run("missing file is 422", func(t *testing.T) {
		e := newEnv(t)
		rec := e.as(t, multipartPicture(t, nil, map[string]string{"scale": "1"}))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
