package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/team-extractor/internal/config"
	"github.com/jonathan/team-extractor/internal/export"
)

func newSettingsCmd(t *testing.T, args ...string) (*cobra.Command, *cliFlags) {
	t.Helper()
	f := &cliFlags{}
	cmd := &cobra.Command{Use: "test"}
	addConfigFlag(cmd, f)
	addInputFlags(cmd, f)
	addEnrichFlags(cmd, f)
	addExportFlags(cmd, f)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvAPIKey, config.EnvDatabaseURL, config.EnvServiceAccount, config.EnvSpreadsheetID} {
		t.Setenv(key, "")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)
	cmd, f := newSettingsCmd(t)

	cfg, err := loadSettings(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.Container)
	assert.Equal(t, export.DefaultSheetName, cfg.SheetName)
	assert.Equal(t, 30, cfg.FetchTimeout)
	assert.Empty(t, cfg.ExcelPath)
}

func TestLoadSettings_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvAPIKey, "env-key")
	t.Setenv(config.EnvSpreadsheetID, "env-sheet")

	input := writeTempFile(t, "team.txt", sampleContainerText)
	configFile := writeTempFile(t, "config.yaml", `
url: https://example.com/team
input: `+input+`
container: "2"
spreadsheet_id: file-sheet
requests_per_second: 2
`)

	cmd, f := newSettingsCmd(t, "--config", configFile, "--container", "3", "--use-browser")

	cfg, err := loadSettings(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/team", cfg.URL)
	assert.Equal(t, "3", cfg.Container)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "file-sheet", cfg.SpreadsheetID)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"invalid url", []string{"--url", "not a url"}, "'url' must be an absolute URL"},
		{"invalid container", []string{"--container", "first"}, "'container' must be a container number"},
		{"negative rps", []string{"--rps", "-1"}, "'requests_per_second' must be non-negative"},
		{"bad database url", []string{"--db-url", "mysql://localhost"}, "'database_url' must be a postgres connection URL"},
		{"missing input", []string{"--input", "/does/not/exist.txt"}, "input file not found"},
		{"missing config", []string{"--config", "/does/not/exist.yaml"}, "failed to load config"},
		{"missing credentials", []string{"--credentials", "/does/not/exist.json"}, "failed to read credentials file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cmd, f := newSettingsCmd(t, tt.args...)
			_, err := loadSettings(cmd, f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestLoadSettings_UnregisteredGroupsIgnored(t *testing.T) {
	input := writeTempFile(t, "team.txt", sampleContainerText)
	configFile := writeTempFile(t, "config.yaml", `
input: `+input+`
requests_per_second: -1
credentials_json: "not json"
`)

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		errorString string
	}{
		{
			name:        "malformed service account env",
			env:         map[string]string{config.EnvServiceAccount: "not json"},
			args:        []string{"--input", input},
			errorString: "'credentials_json' must be valid JSON",
		},
		{
			name:        "malformed database url env",
			env:         map[string]string{config.EnvDatabaseURL: "mysql://localhost"},
			args:        []string{"--input", input},
			errorString: "'database_url' must be a postgres connection URL",
		},
		{
			name:        "invalid values in config file",
			args:        []string{"--config", configFile},
			errorString: "must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			f := &cliFlags{}
			segmentLike := &cobra.Command{Use: "segment"}
			addConfigFlag(segmentLike, f)
			segmentLike.Flags().StringVarP(&f.input, "input", "i", "", "")
			require.NoError(t, segmentLike.ParseFlags(tt.args))

			cfg, err := loadSettings(segmentLike, f)
			require.NoError(t, err)
			assert.Equal(t, input, cfg.Input)
			assert.Empty(t, cfg.CredentialsJSON)
			assert.Empty(t, cfg.DatabaseURL)

			full, ff := newSettingsCmd(t, tt.args...)
			_, err = loadSettings(full, ff)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestLoadSettings_CredentialsFile(t *testing.T) {
	clearEnv(t)
	keyFile := writeTempFile(t, "key.json", `{"type": "service_account"}`)
	cmd, f := newSettingsCmd(t, "--credentials", keyFile)

	cfg, err := loadSettings(cmd, f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "service_account"}`, cfg.CredentialsJSON)
}

func TestLoadSettings_ExcelFlag(t *testing.T) {
	clearEnv(t)

	cmd, f := newSettingsCmd(t, "--excel")
	cfg, err := loadSettings(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, export.DefaultExcelPath, cfg.ExcelPath)

	cmd, f = newSettingsCmd(t, "--excel=out/team.xlsx")
	cfg, err = loadSettings(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, "out/team.xlsx", cfg.ExcelPath)
}
