package environment

import (
	"context"
	"strings"
)

// Environment is the deployment stage the dashboard runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse maps APP_ENV values, including the short aliases "dev", "stage" and
// "prod", to an Environment. Anything unrecognised is Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

type contextKey struct{}

// WithContext stores env in ctx.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or "" when unset.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

func IsProduction(ctx context.Context) bool  { return FromContext(ctx) == Production }
func IsDevelopment(ctx context.Context) bool { return FromContext(ctx) == Development }
func IsStaging(ctx context.Context) bool     { return FromContext(ctx) == Staging }
