package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealwise/internal/database"
	"github.com/pageza/mealwise/internal/middleware"
	"github.com/pageza/mealwise/internal/render"
	"github.com/pageza/mealwise/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the HTTP server until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	analyzer, err := a.analyzer(ctx)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	// Without redis the limiter is per process.
	redisClient, err := database.NewRedisClient(ctx, a.cfg, a.logger)
	if err != nil {
		a.logger.Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	limiter := middleware.NewAnalysisRateLimiter(redisClient, a.cfg.RateLimit, a.cfg.RateLimitWindow)

	srv, err := server.New(a.cfg, analyzer, renderer, limiter, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Info("meal analyzer ready",
		zap.String("env", string(a.cfg.Environment)),
		zap.String("model", a.cfg.GeminiModel),
		zap.Bool("ai_configured", analyzer.Configured()),
		zap.Bool("redis", redisClient != nil),
	)

	if err := srv.Run(ctx); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
