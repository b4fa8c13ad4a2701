package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a records file to Google Sheets or Excel",
	Long: "Export appends records to a Google Sheets worksheet after its last used row, " +
		"writes them to a new Excel workbook, or both.",
	RunE: runExport,
}

var exportFlags cliFlags

func init() {
	addConfigFlag(exportCmd, &exportFlags)
	addExportFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVarP(&exportFlags.records, "records", "r", "", "Path to records JSON (required)")

	if err := exportCmd.MarkFlagRequired("records"); err != nil {
		panic(fmt.Sprintf("failed to mark records flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, &exportFlags)
	if err != nil {
		return err
	}

	records, err := readRecordSet(exportFlags.records)
	if err != nil {
		return err
	}

	exporters, err := buildExporters(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if len(exporters) == 0 {
		return fmt.Errorf("no export target: set --spreadsheet-id (or SPREADSHEET_ID) or --excel")
	}

	return runExports(cmd.Context(), cmd.OutOrStdout(), exporters, *records)
}
