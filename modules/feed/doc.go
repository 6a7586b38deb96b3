// Package feed exposes the post store, the notification store and the
// visibility tracker over HTTP.
//
// Mutations go through JSON or form endpoints; GET /stream is a datastar SSE
// stream that sends the posts, dashboard, notifications and unreadCount
// signals and patches the new-posts badge on every change.
package feed
