// Package handler adapts typed handler functions to net/http.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// from pkg/binder, and returns a Response:
//
//	type likeRequest struct {
//		ID int64 `path:"id"`
//	}
//
//	r.Post("/api/posts/{id}/like", handler.Handle(log,
//		func(ctx handler.Context, req likeRequest) handler.Response {
//			if !store.LikePost(req.ID) {
//				return handler.JSONError(handler.ErrNotFound)
//			}
//			return handler.JSON(store.Post(req.ID))
//		},
//		binder.Path(),
//	))
//
// Responses: JSON and JSONError, Empty, Redirect (SSE-aware), Templ and SSE.
// JSONError turns validator.ValidationErrors into 422 with a per-field
// details map and hides the text of unexpected errors behind a generic 500.
//
// SSE streams use datastar: StreamContext.SendSignals merges JSON values
// into client signals and SendComponent patches templ components.
package handler
