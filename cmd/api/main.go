// Command api runs the meal analyzer web server, or a single analysis from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealwise/config"
	"github.com/pageza/mealwise/internal/logger"
	"github.com/pageza/mealwise/internal/service"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mealwise",
		Short: "Analyze meals for nutrition and get healthy recipe ideas",
		Long: `mealwise estimates calories and macronutrients for a described meal, comments on
its healthiness and suggests 2-3 healthy recipes, using a single Gemini request.

Run without a subcommand to start the web server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			a.cfg = cfg
			a.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd(a), newAnalyzeCmd(a))
	return rootCmd
}

// analyzer builds the Gemini-backed service from the loaded config.
func (a *app) analyzer(ctx context.Context) (*service.AnalysisService, error) {
	return service.NewAnalysisService(ctx, service.AnalysisConfig{
		APIKey:      a.cfg.GeminiAPIKey,
		Model:       a.cfg.GeminiModel,
		BaseURL:     a.cfg.GeminiBaseURL,
		Temperature: a.cfg.GeminiTemperature,
		Timeout:     a.cfg.GeminiTimeout,
	}, a.logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
