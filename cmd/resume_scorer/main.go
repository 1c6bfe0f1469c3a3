// Package main provides the CLI entrypoint for resume_scorer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/observability"
)

var (
	configPath string
	verbose    bool

	// fileConfig holds config file values with environment fallbacks. Commands merge their
	// flags over it.
	fileConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resume_scorer",
	Short: "Resume ATS scoring engine",
	Long: `resume_scorer scores resumes the way applicant tracking systems read them.

It reports a 0-100 score across ten tiers, an input quality verdict, formatting risks,
evidence-backed job fit and bullets that are too long, with fixes.

Configuration can be loaded from a JSON file using --config. Command-line flags override
config file values, which override DATABASE_URL, SQLITE_PATH and GEMINI_API_KEY.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRootConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadRootConfig(cmd *cobra.Command, _ []string) error {
	loaded := config.Config{}
	if configPath != "" {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		loaded = *c
	}
	fileConfig = loaded.MergeWithDefaults(config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	})

	observability.Setup(cmd.ErrOrStderr(), verbose || fileConfig.Verbose)
	return nil
}
