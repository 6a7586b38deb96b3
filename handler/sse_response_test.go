package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/handler"
)

func TestSSE(t *testing.T) {
	t.Parallel()

	badge := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span id="badge">3</span>`)
		return err
	})

	resp := handler.SSE(func(stream handler.StreamContext) error {
		if err := stream.SendSignals(map[string]any{"unreadCount": 2}); err != nil {
			return err
		}
		return stream.SendComponent(badge, handler.WithTarget("#badge"))
	})

	t.Run("streams signals and elements", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
		req.Header.Set("Accept", "text/event-stream")
		rec := httptest.NewRecorder()

		require.NoError(t, resp.Render(rec, req))
		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, `"unreadCount":2`)
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, `<span id="badge">3</span>`)
	})

	t.Run("plain request is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := resp.Render(rec, httptest.NewRequest(http.MethodGet, "/api/stream", nil))

		var httpErr handler.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestTempl(t *testing.T) {
	t.Parallel()

	c := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hi</p>")
		return err
	})

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Templ(c).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "<p>hi</p>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
