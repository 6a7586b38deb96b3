package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20

// JSON creates a binder for application/json bodies. Unknown fields and
// trailing data are rejected. Requests without a JSON content type yield
// ErrBinderNotApplicable, and an empty body leaves v untouched.
//
//	http.HandleFunc("/api/posts", handler.Wrap(createPost,
//		handler.WithBinders[handler.Context, createPostRequest](binder.JSON()),
//	))
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType := mediaType(r)
		if mediaType == "" {
			if r.ContentLength > 0 {
				return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
			}
			return ErrBinderNotApplicable
		}
		if mediaType != "application/json" {
			return ErrBinderNotApplicable
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: read body: %v", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}
		if len(body) == 0 {
			return nil
		}

		dec := json.NewDecoder(bytesReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}
		return nil
	}
}
