package handler

import (
	"log/slog"
	"net/http"

	"github.com/socialdash/dashboard/pkg/logger"
)

// NewErrorHandler renders errors as JSON envelopes and logs them once.
// Server errors are logged at error level, client errors at debug. The log
// call carries the request context, so extractors can add the request id.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, detail := ErrorToDetail(err)

		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		_ = jsonResponse{status: status, body: JSONResponse{Error: detail}}.Render(ctx.ResponseWriter(), r)
	}
}

// Handle wraps h with the package error handler for log.
func Handle[R any](log *slog.Logger, h HandlerFunc[Context, R], binders ...Bind) http.HandlerFunc {
	return Wrap(h,
		WithBinders[Context, R](binders...),
		WithErrorHandler[Context, R](NewErrorHandler(log)),
	)
}
