package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/config"
	"github.com/jonathan/proposal-pages/internal/db"
	"github.com/jonathan/proposal-pages/internal/llm"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server that renders proposal pages, hosts live editor sessions
and, when DATABASE_URL is set, the authenticated dashboard API.

Without DATABASE_URL only the public rendering and session routes are served.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	servePort       int
	serveMigrate    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values override the environment)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending database migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Dependencies{Logger: logger}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if serveMigrate {
			applied, err := database.Migrate(ctx)
			if err != nil {
				return err
			}
			if len(applied) > 0 {
				logger.Info("migrations applied", zap.Strings("migrations", applied))
			}
		}

		if deps.JWT, err = config.NewJWTConfig(); err != nil {
			return err
		}
		if deps.Password, err = config.NewPasswordConfig(); err != nil {
			return err
		}
		deps.Store = database
	} else {
		logger.Warn("DATABASE_URL not set; dashboard, auth and billing routes are disabled")
	}

	if cfg.APIKey != "" {
		client, err := newModelClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		deps.LLM = client
	} else {
		logger.Info("GEMINI_API_KEY not set; drafting uses static copy")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}

// newModelClient builds the Gemini client with cfg.Model as the standard tier.
func newModelClient(ctx context.Context, cfg config.Config) (*llm.GeminiClient, error) {
	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}
