package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/team-extractor/internal/observability"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the profile pass on previously extracted records",
	Long: "Enrich loads records written by 'extract --preview-out' (or edited by hand), fetches each " +
		"profile page and merges the details found there. Records are validated before any request is made.",
	RunE: runEnrich,
}

var enrichFlags cliFlags

func init() {
	addConfigFlag(enrichCmd, &enrichFlags)
	addEnrichFlags(enrichCmd, &enrichFlags)
	addExportFlags(enrichCmd, &enrichFlags)
	enrichCmd.Flags().StringVarP(&enrichFlags.records, "records", "r", "", "Path to records JSON to enrich (required)")
	enrichCmd.Flags().StringVarP(&enrichFlags.outputFile, "out", "o", DefaultOutputFile, "Path to final records JSON")

	if err := enrichCmd.MarkFlagRequired("records"); err != nil {
		panic(fmt.Sprintf("failed to mark records flag as required: %v", err))
	}

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, &enrichFlags)
	if err != nil {
		return err
	}

	preview, err := readRecordSet(enrichFlags.records)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

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

	final, outcomes, err := orchestrator.RunSecondPass(ctx, preview)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	printer := observability.NewPrinter(out)
	printer.PrintRecordSet("final records", &final)
	printer.PrintCounts("profile pass", outcomeLabels, outcomeCounts(outcomes))

	if err := writeRecordSet(enrichFlags.outputFile, final); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Final records written to %s\n", enrichFlags.outputFile)

	return runExports(ctx, out, exporters, final)
}
