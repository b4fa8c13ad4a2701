package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/config"
	"github.com/jonathan/team-extractor/internal/db"
	"github.com/jonathan/team-extractor/internal/export"
	"github.com/jonathan/team-extractor/internal/extraction"
	"github.com/jonathan/team-extractor/internal/fetch"
	"github.com/jonathan/team-extractor/internal/llm"
	"github.com/jonathan/team-extractor/internal/pipeline"
	"github.com/jonathan/team-extractor/internal/segment"
	"github.com/jonathan/team-extractor/internal/types"
)

// outcomeLabels is the order outcome counts are printed in.
var outcomeLabels = []string{
	string(pipeline.OutcomeExtracted),
	string(pipeline.OutcomeEnriched),
	string(pipeline.OutcomeUnenriched),
	string(pipeline.OutcomeSkipped),
	string(pipeline.OutcomeFailed),
}

// buildOrchestrator wires the LLM client, the page cache and the profile
// fetcher. The returned cleanup func must be called when the run is done.
func buildOrchestrator(ctx context.Context, cfg config.Config) (*pipeline.Orchestrator, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithAllModels(cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	cleanups := []func(){func() { _ = client.Close() }}

	database := openPageCache(ctx, cfg.DatabaseURL)
	if database != nil {
		cleanups = append(cleanups, database.Close)
	}

	pages := fetch.NewCachedFetcher(database, &fetch.CachedFetcherConfig{
		Options: &fetch.Options{
			Timeout:   cfg.Timeout(),
			UserAgent: fetch.DefaultUserAgent,
		},
		Logger: logger,
	})
	profiles := fetch.NewProfileFetcher(pages, fetch.ProfileFetcherConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		UseBrowser:        cfg.UseBrowser,
		Logger:            logger,
	})

	orchestrator := pipeline.NewOrchestrator(extraction.NewLLMService(client, logger), profiles, logger)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return orchestrator, cleanup, nil
}

// openPageCache connects to the page cache. A cache that cannot be reached
// is logged and the run continues without one.
func openPageCache(ctx context.Context, databaseURL string) *db.DB {
	if databaseURL == "" {
		return nil
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Warn("page cache unavailable, fetching without cache", zap.Error(err))
		return nil
	}
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Warn("failed to prepare page cache schema, fetching without cache", zap.Error(err))
		database.Close()
		return nil
	}
	return database
}

// buildExporters returns one exporter per configured target.
func buildExporters(ctx context.Context, cfg config.Config) ([]export.Exporter, error) {
	var exporters []export.Exporter
	if cfg.SpreadsheetID != "" {
		sheetsExporter, err := export.NewSheetsExporter(ctx, export.SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsJSON: []byte(cfg.CredentialsJSON),
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, sheetsExporter)
	}
	if cfg.ExcelPath != "" {
		excelExporter := export.NewExcelExporter(cfg.ExcelPath, logger)
		if cfg.SheetName != "" {
			excelExporter.SheetName = cfg.SheetName
		}
		exporters = append(exporters, excelExporter)
	}
	return exporters, nil
}

// runExports writes records to every exporter, stopping at the first failure.
func runExports(ctx context.Context, out io.Writer, exporters []export.Exporter, records types.RecordSet) error {
	for _, exporter := range exporters {
		result, err := exporter.Export(ctx, records)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Exported %d records to %s starting at row %d\n", result.Rows, result.Target, result.StartRow)
	}
	return nil
}

func readRecordSet(path string) (*types.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	records, err := pipeline.DecodeRecordSet(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, nil
}

func writeRecordSet(path string, records types.RecordSet) error {
	data, err := pipeline.EncodeRecordSet(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write records file: %w", err)
	}
	return nil
}

func outcomeCounts(outcomes []pipeline.Outcome) map[string]int {
	counts := make(map[string]int)
	for status, n := range pipeline.CountOutcomes(outcomes) {
		counts[string(status)] = n
	}
	return counts
}

func progressPrinter(out io.Writer) pipeline.ProgressCallback {
	return func(event pipeline.Progress) {
		_, _ = fmt.Fprintf(out, "[%s pass] %d/%d\n", event.Pass, event.Current, event.Total)
	}
}

func warningStrings(warnings []segment.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
