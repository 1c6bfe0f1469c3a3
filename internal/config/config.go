// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store drivers accepted in store_driver.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Job        string `json:"job,omitempty"`         // Path to job description text file
	JobURL     string `json:"job_url,omitempty"`     // URL to fetch the job description from
	Resume     string `json:"resume,omitempty"`      // Path to resume (pdf, docx, html or text)
	ResumeData string `json:"resume_data,omitempty"` // Path to structured resume JSON
	UserType   string `json:"user_type,omitempty"`   // fresher, experienced or student
	Output     string `json:"output,omitempty"`      // Path for the JSON report; stdout if empty

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	StoreDriver string `json:"store_driver,omitempty"` // postgres or sqlite; inferred if empty
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite file for local report history

	// Behavior
	APIKey         string `json:"api_key,omitempty"`          // Gemini API key for AI bullet rewrites
	UseBrowser     bool   `json:"use_browser,omitempty"`      // Render job pages in a headless browser
	Verbose        bool   `json:"verbose,omitempty"`          // Print detailed debug information
	MaxBulletChars int    `json:"max_bullet_chars,omitempty"` // Bullet length budget
	Concurrency    int    `json:"concurrency,omitempty"`      // Resumes scored in parallel by batch
	Port           int    `json:"port,omitempty"`             // HTTP port for serve
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are left to CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}
	if c.Resume != "" && c.ResumeData != "" {
		return fmt.Errorf("config error: 'resume' and 'resume_data' are mutually exclusive")
	}

	switch c.UserType {
	case "", "fresher", "experienced", "student":
	default:
		return fmt.Errorf("config error: 'user_type' must be fresher, experienced or student, got %q", c.UserType)
	}
	switch c.StoreDriver {
	case "", StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("config error: 'store_driver' must be %s or %s, got %q", StorePostgres, StoreSQLite, c.StoreDriver)
	}

	if c.MaxBulletChars < 0 {
		return fmt.Errorf("config error: 'max_bullet_chars' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	for name, path := range map[string]string{"job": c.Job, "resume": c.Resume, "resume_data": c.ResumeData} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Job, defaults.Job)
	fill(&result.JobURL, defaults.JobURL)
	fill(&result.Resume, defaults.Resume)
	fill(&result.ResumeData, defaults.ResumeData)
	fill(&result.UserType, defaults.UserType)
	fill(&result.Output, defaults.Output)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.StoreDriver, defaults.StoreDriver)
	fill(&result.SQLitePath, defaults.SQLitePath)
	fill(&result.APIKey, defaults.APIKey)

	if result.MaxBulletChars == 0 {
		result.MaxBulletChars = defaults.MaxBulletChars
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bools cannot distinguish unset from false, so CLI flags always win.

	return result
}

// Store returns the report store driver and data source, or empty strings when no store
// is configured. An explicit store_driver wins; otherwise a database URL selects
// PostgreSQL and a SQLite path selects SQLite.
func (c *Config) Store() (driver, dsn string) {
	switch {
	case c.StoreDriver == StorePostgres:
		return StorePostgres, c.DatabaseURL
	case c.StoreDriver == StoreSQLite:
		return StoreSQLite, c.SQLitePath
	case c.DatabaseURL != "":
		return StorePostgres, c.DatabaseURL
	case c.SQLitePath != "":
		return StoreSQLite, c.SQLitePath
	default:
		return "", ""
	}
}
