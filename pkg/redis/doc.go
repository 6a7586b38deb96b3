// Package redis connects to the optional Redis server that backs login
// sessions and the login rate limit.
//
// Connect retries the initial ping using REDIS_* settings; when REDIS_URL is
// empty it returns ErrEmptyConnectionURL and the caller falls back to an
// in-memory store. Healthcheck plugs into the readiness probe.
package redis
