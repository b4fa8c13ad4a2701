package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/observability"
	"github.com/jonathan/team-extractor/internal/pipeline"
)

// DefaultOutputFile is where final records are written when --out is not set.
const DefaultOutputFile = "employees.json"

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and enrich employee records from one container",
	Long: "Extract runs the full workflow on one container of scraped team page text: " +
		"a listing pass that turns every instance into employee records, then a profile pass " +
		"that fetches each person's page and merges the details found there.",
	RunE: runExtract,
}

var extractFlags cliFlags

func init() {
	addConfigFlag(extractCmd, &extractFlags)
	addInputFlags(extractCmd, &extractFlags)
	addEnrichFlags(extractCmd, &extractFlags)
	addExportFlags(extractCmd, &extractFlags)
	extractCmd.Flags().StringVarP(&extractFlags.outputFile, "out", "o", DefaultOutputFile, "Path to final records JSON")
	extractCmd.Flags().StringVar(&extractFlags.previewFile, "preview-out", "", "Path to write first pass records JSON")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, &extractFlags)
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("--input flag or 'input' in config is required")
	}
	if cfg.URL == "" {
		return fmt.Errorf("--url flag or 'url' in config is required")
	}

	raw, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	session := pipeline.NewSession()
	warnings := session.Load(string(raw), cfg.URL)
	printer.PrintWarnings(warningStrings(warnings))
	if cfg.Verbose {
		printer.PrintContainers(session.Containers())
	}
	if _, err := session.Instances(cfg.Container); err != nil {
		return fmt.Errorf("cannot process container %s: %w", cfg.Container, err)
	}

	exporters, err := buildExporters(ctx, cfg)
	if err != nil {
		return err
	}

	orchestrator, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	orchestrator.OnProgress = progressPrinter(cmd.ErrOrStderr())

	logger.Info("Starting extraction",
		zap.String("session_id", session.ID().String()),
		zap.String("url", session.URL()),
		zap.String("container", cfg.Container))

	report, err := orchestrator.RunSession(ctx, session, cfg.Container)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	printer.PrintRecordSet("preview", &report.Preview)
	printer.PrintCounts("listing pass", outcomeLabels, outcomeCounts(report.FirstPass))
	printer.PrintRecordSet("final records", &report.Final)
	printer.PrintCounts("profile pass", outcomeLabels, outcomeCounts(report.SecondPass))

	if extractFlags.previewFile != "" {
		if err := writeRecordSet(extractFlags.previewFile, report.Preview); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Preview written to %s\n", extractFlags.previewFile)
	}
	if err := writeRecordSet(extractFlags.outputFile, report.Final); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Final records written to %s\n", extractFlags.outputFile)

	return runExports(ctx, out, exporters, report.Final)
}
