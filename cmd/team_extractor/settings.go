package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/team-extractor/internal/config"
	"github.com/jonathan/team-extractor/internal/export"
	"github.com/jonathan/team-extractor/internal/fetch"
	"github.com/jonathan/team-extractor/internal/pipeline"
)

// cliFlags holds the values of the flags a command registered. Only flags
// the user actually set override the config file.
type cliFlags struct {
	configFile      string
	input           string
	records         string
	url             string
	container       string
	apiKey          string
	model           string
	useBrowser      bool
	rps             float64
	fetchTimeout    int
	dbURL           string
	spreadsheetID   string
	sheetName       string
	credentialsFile string
	excelPath       string
	outputFile      string
	previewFile     string
}

func addConfigFlag(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to JSON or YAML config file")
}

func addInputFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Path to scraped container text")
	cmd.Flags().StringVar(&f.url, "url", "", "Team page the text was scraped from")
	cmd.Flags().StringVar(&f.container, "container", "", "Container number to process (default \"1\")")
}

func addEnrichFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&f.model, "model", "", "Gemini model used for every request")
	cmd.Flags().BoolVar(&f.useBrowser, "use-browser", false, "Render thin profile pages in headless Chrome")
	cmd.Flags().Float64Var(&f.rps, "rps", 0, "Maximum profile page requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&f.fetchTimeout, "fetch-timeout", 0, "Seconds allowed per page fetch")
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "PostgreSQL URL for the page cache (overrides DATABASE_URL env var)")
}

func addExportFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVar(&f.spreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet to append to (overrides SPREADSHEET_ID env var)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "Worksheet name (default \"Sheet1\")")
	cmd.Flags().StringVar(&f.credentialsFile, "credentials", "", "Path to a service account key (overrides GCP_SERVICE_ACCOUNT env var)")
	cmd.Flags().StringVar(&f.excelPath, "excel", "", "Write an Excel workbook to this path")
	cmd.Flags().Lookup("excel").NoOptDefVal = export.DefaultExcelPath
}

// loadSettings resolves the settings for a command. Changed flags win over
// the config file and the config file wins over the environment. Defaults
// fill whatever is still empty. Enrichment and export settings are dropped
// for commands that do not register their flags, so they are neither used
// nor validated there.
func loadSettings(cmd *cobra.Command, f *cliFlags) (config.Config, error) {
	cfg := &config.Config{}
	if f.configFile != "" {
		loaded, err := config.LoadConfig(f.configFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = f.input
	}
	if flags.Changed("url") {
		cfg.URL = f.url
	}
	if flags.Changed("container") {
		cfg.Container = f.container
	}
	if flags.Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if flags.Changed("model") {
		cfg.Model = f.model
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = f.useBrowser
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond = f.rps
	}
	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout = f.fetchTimeout
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = f.dbURL
	}
	if flags.Changed("spreadsheet-id") {
		cfg.SpreadsheetID = f.spreadsheetID
	}
	if flags.Changed("sheet-name") {
		cfg.SheetName = f.sheetName
	}
	if flags.Changed("excel") {
		cfg.ExcelPath = f.excelPath
	}
	if flags.Changed("credentials") {
		data, err := os.ReadFile(f.credentialsFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to read credentials file: %w", err)
		}
		cfg.CredentialsJSON = string(data)
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg.ApplyEnv(os.Getenv)
	if flags.Lookup("db-url") == nil {
		cfg.APIKey, cfg.Model, cfg.DatabaseURL = "", "", ""
		cfg.UseBrowser = false
		cfg.RequestsPerSecond, cfg.FetchTimeout = 0, 0
	}
	if flags.Lookup("spreadsheet-id") == nil {
		cfg.SpreadsheetID, cfg.SheetName = "", ""
		cfg.CredentialsJSON, cfg.ExcelPath = "", ""
	}

	merged := cfg.MergeWithDefaults(config.Config{
		Container:    pipeline.DefaultContainerID,
		SheetName:    export.DefaultSheetName,
		FetchTimeout: int(fetch.DefaultTimeout / time.Second),
	})
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}
