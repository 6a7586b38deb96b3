// Package logger builds the service's *slog.Logger and keeps attribute names
// consistent.
//
// New takes functional options for format, level, static attributes and
// context extractors. Extractors run on every record, which is how request
// ids end up in logs without being passed around:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "dashboard"),
//		logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.InfoContext(ctx, "post added", logger.PostID(id))
//
// Attribute helpers such as Error and UserID return an empty slog.Attr for nil
// input, so they can be passed unconditionally.
package logger
