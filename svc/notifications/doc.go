// Package notifications holds the user's notification inbox and its unread
// count, published as snapshots the same way the post feed is.
package notifications
