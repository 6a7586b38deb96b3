package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/socialdash/dashboard/pkg/config"
	"github.com/socialdash/dashboard/pkg/environment"
	"github.com/socialdash/dashboard/pkg/httpserver"
	"github.com/socialdash/dashboard/pkg/logger"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg Config
			if err := config.Load(&cfg); err != nil {
				return err
			}

			env := environment.Parse(cfg.AppEnv)
			logOpts := []logger.Option{
				logger.WithEnvironment(env, cfg.AppName),
				logger.WithContextValue("request_id", middleware.RequestIDKey),
			}
			if cfg.LogLevel != "" {
				var level slog.Level
				if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
					return fmt.Errorf("LOG_LEVEL: %w", err)
				}
				logOpts = append(logOpts, logger.WithLevel(level))
			}
			log := logger.New(logOpts...)
			logger.SetAsDefault(log)

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, log)
			if err != nil {
				log.ErrorContext(ctx, "startup failed", logger.Error(err))
				return err
			}

			srv := httpserver.NewFromConfig(cfg.HTTP,
				httpserver.WithLogger(log),
				// stores close after in-flight requests drain, which also ends open streams
				httpserver.WithStopHook(func(*slog.Logger) {
					_ = a.close(context.Background())
				}),
			)

			log.InfoContext(ctx, "starting", slog.String("version", Version), slog.String("addr", cfg.HTTP.Addr))
			err = srv.Run(ctx, a.routes(env))
			// no-op when the stop hook already ran
			_ = a.close(context.Background())
			return err
		},
	}
}

