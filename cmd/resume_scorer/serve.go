package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/server"
	"github.com/jonathan/resume-scorer/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the scoring engine as REST endpoints.

Report history is enabled when a store is configured (DATABASE_URL or SQLITE_PATH), AI
bullet rewrites when GEMINI_API_KEY is set, and bearer-token authentication when
JWT_SECRET is set. Rate limits are read from the RATE_LIMIT_* variables.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	port := servePort
	if !cmd.Flags().Changed("port") && fileConfig.Port != 0 {
		port = fileConfig.Port
	}

	cfg := server.Config{
		Port:           port,
		RateLimit:      ratelimit.LoadConfig(),
		MaxBulletChars: fileConfig.MaxBulletChars,
		Concurrency:    fileConfig.Concurrency,
	}

	if config.JWTEnabled() {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("invalid JWT configuration: %w", err)
		}
		cfg.JWT = jwtCfg
	}

	if driver, dsn := fileConfig.Store(); driver != "" {
		store, err := db.Open(ctx, driver, dsn)
		if err != nil {
			return fmt.Errorf("failed to open report store: %w", err)
		}
		cfg.Store = store
	} else {
		slog.Warn("no report store configured, report endpoints are disabled")
	}

	if fileConfig.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), fileConfig.APIKey)
		if err != nil {
			if cfg.Store != nil {
				_ = cfg.Store.Close()
			}
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		cfg.LLM = client
	}

	srv, err := server.New(cfg)
	if err != nil {
		if cfg.Store != nil {
			_ = cfg.Store.Close()
		}
		if cfg.LLM != nil {
			_ = cfg.LLM.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		srv.Close()
		return err
	}
	return nil
}
