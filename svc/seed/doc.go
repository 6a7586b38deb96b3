// Package seed provides the initial posts and notifications, either the
// built-in set or a YAML file named by FEED_SEED_FILE.
package seed
