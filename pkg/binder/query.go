package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Query binds URL query parameters using `query:"name"` tags.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

// Path binds chi route parameters using `path:"name"` tags.
func Path() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := make(map[string][]string)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				values[key] = append(values[key], rctx.URLParams.Values[i])
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
