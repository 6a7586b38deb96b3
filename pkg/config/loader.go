package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v using `env` struct tags. The
// first call also reads ./.env when it exists. Each struct type is parsed
// once per process; later calls copy the cached value.
//
//	type Config struct {
//		Addr string        `env:"HTTP_ADDR" envDefault:":8080"`
//		TTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// a missing .env is fine
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment, or ./.env
// when no path is given. Variables already set are not overridden.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reload drops the cached value for T and parses it again.
func Reload[T any](v *T) error {
	cacheMu.Lock()
	delete(cache, reflect.TypeFor[T]())
	cacheMu.Unlock()
	return Load(v)
}

// ResetCache forgets every cached configuration.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
