// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the matching field is empty.
const (
	EnvAPIKey         = "GEMINI_API_KEY"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvServiceAccount = "GCP_SERVICE_ACCOUNT"
	EnvSpreadsheetID  = "SPREADSHEET_ID"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Listing page the text was scraped from
	URL       string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	// Path to scraped container text
	Input     string `json:"input,omitempty" yaml:"input,omitempty"`
	// Container to process
	Container string `json:"container,omitempty" yaml:"container,omitempty" validate:"omitempty,numeric"`

	// Gemini API key
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Overrides every model tier
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`

	// Render thin pages in a headless browser
	UseBrowser        bool    `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`
	// Profile fetch rate limit, 0 = unlimited
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"gte=0"`
	// Seconds per page fetch
	FetchTimeout      int     `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty" validate:"gte=0"`
	// PostgreSQL page cache
	DatabaseURL       string  `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"omitempty,startswith=postgres"`

	SpreadsheetID   string `json:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`
	SheetName       string `json:"sheet_name,omitempty" yaml:"sheet_name,omitempty"`
	// Service account key
	CredentialsJSON string `json:"credentials_json,omitempty" yaml:"credentials_json,omitempty" validate:"omitempty,json"`
	ExcelPath       string `json:"excel_path,omitempty" yaml:"excel_path,omitempty"`

	// Print detailed debug information
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv fills empty secrets and endpoints from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.APIKey == "" {
		c.APIKey = getenv(EnvAPIKey)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = getenv(EnvDatabaseURL)
	}
	if c.CredentialsJSON == "" {
		c.CredentialsJSON = getenv(EnvServiceAccount)
	}
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = getenv(EnvSpreadsheetID)
	}
}

// Timeout returns the page fetch timeout, or zero for the fetcher default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

var fieldKeys = map[string]string{
	"URL":               "url",
	"Container":         "container",
	"RequestsPerSecond": "requests_per_second",
	"FetchTimeout":      "fetch_timeout",
	"DatabaseURL":       "database_url",
	"CredentialsJSON":   "credentials_json",
}

func fieldError(fe validator.FieldError) error {
	key, ok := fieldKeys[fe.StructField()]
	if !ok {
		key = fe.Field()
	}
	switch fe.Tag() {
	case "url":
		return fmt.Errorf("config error: '%s' must be an absolute URL", key)
	case "numeric":
		return fmt.Errorf("config error: '%s' must be a container number", key)
	case "gte":
		return fmt.Errorf("config error: '%s' must be non-negative", key)
	case "startswith":
		return fmt.Errorf("config error: '%s' must be a postgres connection URL", key)
	case "json":
		return fmt.Errorf("config error: '%s' must be valid JSON", key)
	default:
		return fmt.Errorf("config error: '%s' failed '%s' validation", key, fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.URL == "" {
		result.URL = defaults.URL
	}
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Container == "" {
		result.Container = defaults.Container
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SpreadsheetID == "" {
		result.SpreadsheetID = defaults.SpreadsheetID
	}
	if result.SheetName == "" {
		result.SheetName = defaults.SheetName
	}
	if result.CredentialsJSON == "" {
		result.CredentialsJSON = defaults.CredentialsJSON
	}
	if result.ExcelPath == "" {
		result.ExcelPath = defaults.ExcelPath
	}

	// Numeric fields: use default if zero
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
