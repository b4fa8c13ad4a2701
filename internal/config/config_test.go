package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"url": "https://example.com/team",
		"container": "2",
		"use_browser": true,
		"requests_per_second": 1.5,
		"fetch_timeout": 10,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/team", cfg.URL)
	assert.Equal(t, "2", cfg.Container)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 1.5, cfg.RequestsPerSecond)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
url: https://example.com/people
spreadsheet_id: abc123
sheet_name: Team
excel_path: out.xlsx
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/people", cfg.URL)
	assert.Equal(t, "abc123", cfg.SpreadsheetID)
	assert.Equal(t, "Team", cfg.SheetName)
	assert.Equal(t, "out.xlsx", cfg.ExcelPath)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("url: [unterminated"), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config", Config{}, ""},
		{"valid", Config{URL: "https://example.com/team", Container: "3", DatabaseURL: "postgres://localhost/db", CredentialsJSON: `{"type": "service_account"}`}, ""},
		{"relative url", Config{URL: "example.com/team"}, "'url' must be an absolute URL"},
		{"container not numeric", Config{Container: "first"}, "'container' must be a container number"},
		{"negative rate", Config{RequestsPerSecond: -1}, "'requests_per_second' must be non-negative"},
		{"negative timeout", Config{FetchTimeout: -5}, "'fetch_timeout' must be non-negative"},
		{"bad database url", Config{DatabaseURL: "mysql://localhost"}, "'database_url' must be a postgres connection URL"},
		{"bad credentials", Config{CredentialsJSON: "not json"}, "'credentials_json' must be valid JSON"},
		{"missing input", Config{Input: "/nonexistent/containers.txt"}, "input file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIKey:         "env-key",
		EnvDatabaseURL:    "postgres://env",
		EnvServiceAccount: `{"type": "service_account"}`,
		EnvSpreadsheetID:  "env-sheet",
	}
	getenv := func(k string) string { return env[k] }

	cfg := Config{APIKey: "file-key"}
	cfg.ApplyEnv(getenv)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, `{"type": "service_account"}`, cfg.CredentialsJSON)
	assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		URL:          "https://example.com/team",
		FetchTimeout: 5,
	}

	defaults := Config{
		URL:               "https://default.com",
		Container:         "1",
		APIKey:            "default-key",
		ExcelPath:         "default.xlsx",
		RequestsPerSecond: 2,
		FetchTimeout:      30,
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "https://example.com/team", result.URL) // Kept
	assert.Equal(t, "1", result.Container)                 // From default
	assert.Equal(t, "default-key", result.APIKey)          // From default
	assert.Equal(t, "default.xlsx", result.ExcelPath)      // From default
	assert.Equal(t, 2.0, result.RequestsPerSecond)         // From default
	assert.Equal(t, 5, result.FetchTimeout)                // Kept
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Container: "2"}
	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "2", result.Container)
	assert.Empty(t, result.URL)
	assert.Zero(t, result.Timeout())
}
