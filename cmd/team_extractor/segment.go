package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/observability"
	"github.com/jonathan/team-extractor/internal/segment"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split scraped team page text into containers and instances",
	Long: "Segment reads text scraped from a team page, splits it on Container/Instance headers " +
		"and prints a preview of every container so the right one can be chosen for extraction.",
	RunE: runSegment,
}

var segmentFlags cliFlags

func init() {
	addConfigFlag(segmentCmd, &segmentFlags)
	segmentCmd.Flags().StringVarP(&segmentFlags.input, "input", "i", "", "Path to scraped container text")
	segmentCmd.Flags().StringVarP(&segmentFlags.outputFile, "out", "o", "", "Write the segmented containers as JSON to this path")

	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, &segmentFlags)
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("--input flag or 'input' in config is required")
	}

	raw, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	containers, warnings := segment.Segment(string(raw))
	for _, w := range warnings {
		logger.Warn("skipped malformed section", zap.String("container", w.ContainerID), zap.String("instance", w.InstanceID), zap.Error(w.Err))
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintWarnings(warningStrings(warnings))
	printer.PrintContainers(containers)

	if segmentFlags.outputFile != "" {
		data, err := json.MarshalIndent(containers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal containers: %w", err)
		}
		if err := os.WriteFile(segmentFlags.outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d containers to %s\n", len(containers.Containers), segmentFlags.outputFile)
	}

	if containers.IsEmpty() {
		return fmt.Errorf("no containers found in %s", cfg.Input)
	}
	return nil
}
