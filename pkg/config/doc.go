// Package config loads typed configuration from the environment.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for .env files. Every struct type is parsed once
// and cached; tests use Reload or ResetCache after changing variables.
package config
