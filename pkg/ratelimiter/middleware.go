package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/socialdash/dashboard/pkg/logger"
)

const maxKeyLength = 64

// KeyFunc extracts the caller key of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ClientIP keys by the host part of RemoteAddr. Put chi's RealIP middleware
// in front when running behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// hashed with FNV-1a.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

type middlewareConfig struct {
	denied http.Handler
	log    *slog.Logger
	now    func() time.Time
}

type MiddlewareOption func(*middlewareConfig)

// WithDeniedHandler replaces the plain-text 429 response. Rate limit headers
// are already set when it runs.
func WithDeniedHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.denied = h
		}
	}
}

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware limits requests per key. Store failures let the request
// through and are logged.
func Middleware(b *Bucket, key KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		denied: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
		log: logger.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				cfg.log.ErrorContext(r.Context(), "rate limit check failed", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				retry := int(res.RetryAfter(cfg.now()).Round(time.Second).Seconds())
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				cfg.log.DebugContext(r.Context(), "rate limited", slog.String("key", k))
				cfg.denied.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
