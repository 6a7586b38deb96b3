package main

import (
	"time"

	"github.com/socialdash/dashboard/pkg/httpserver"
	"github.com/socialdash/dashboard/pkg/mongo"
	"github.com/socialdash/dashboard/pkg/redis"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"socialdash"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	// overrides the level implied by APP_ENV: debug, info, warn or error
	LogLevel string `env:"LOG_LEVEL"`

	HTTP    httpserver.Config
	Mongo   mongo.Config
	Redis   redis.Config
	Feed    FeedConfig
	Session SessionConfig
	Login   LoginLimitConfig
}

type FeedConfig struct {
	SeenDwell   time.Duration `env:"FEED_SEEN_DWELL" envDefault:"2s"`
	FadeDelay   time.Duration `env:"FEED_FADE_DELAY" envDefault:"700ms"`
	BadgePolicy string        `env:"FEED_BADGE_POLICY" envDefault:"deferred"`
	// empty means the embedded seed
	SeedFile string `env:"FEED_SEED_FILE"`
}

type SessionConfig struct {
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// LoginLimitConfig throttles login and signup attempts per client IP.
type LoginLimitConfig struct {
	Burst          int           `env:"LOGIN_RATE_BURST" envDefault:"10"`
	RefillInterval time.Duration `env:"LOGIN_RATE_REFILL_INTERVAL" envDefault:"30s"`
}
