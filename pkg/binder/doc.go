// Package binder fills request structs from HTTP requests.
//
// Each binder reads one source and only touches fields tagged for it:
//
//   - JSON(): application/json bodies, strict decoding
//   - Form(): urlencoded and multipart bodies (`form:` and `file:` tags)
//   - Query(): URL query parameters (`query:` tags)
//   - Path(): chi route parameters (`path:` tags)
//
// Body binders return ErrBinderNotApplicable when the content type does not
// match, so handler.Wrap can chain JSON() and Form() on one route:
//
//	type updateRequest struct {
//		Username *string `json:"username" form:"username"`
//		UserID   int64   `path:"userId"`
//	}
//
//	r.Patch("/profile/{userId}", handler.Wrap(update,
//		handler.WithBinders[handler.Context, updateRequest](binder.Path(), binder.JSON(), binder.Form()),
//	))
package binder
