package export

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/types"
)

const (
	// DefaultExcelPath is the workbook written when no path is configured.
	DefaultExcelPath = "employee_data_results.xlsx"
	// MaxExcelCellLength is the largest number of characters Excel stores in one cell.
	MaxExcelCellLength = 32767
)

// ExcelExporter writes records to a new workbook, replacing any file at Path.
type ExcelExporter struct {
	Path      string
	SheetName string
	Logger    *zap.Logger
}

// NewExcelExporter creates an ExcelExporter with defaults applied.
func NewExcelExporter(path string, logger *zap.Logger) *ExcelExporter {
	if path == "" {
		path = DefaultExcelPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcelExporter{Path: path, SheetName: DefaultSheetName, Logger: logger}
}

// Export implements Exporter.
func (e *ExcelExporter) Export(_ context.Context, records types.RecordSet) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sheet := e.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if len(records.Employees) == 0 {
		return nil, &Error{Target: e.Path, Message: "no records to export"}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if defaultSheet := f.GetSheetName(0); defaultSheet != sheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, &Error{Target: e.Path, Message: "failed to name sheet", Cause: err}
		}
	}

	for i, row := range Rows(records, true) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, &Error{Target: e.Path, Message: "invalid cell reference", Cause: err}
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			if n := utf8.RuneCountInString(v); n > MaxExcelCellLength {
				logger.Warn("truncating long cell value", zap.Int("row", i+1), zap.Int("column", j+1), zap.Int("length", n))
				v = truncateRunes(v, MaxExcelCellLength)
			}
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, &Error{Target: e.Path, Message: fmt.Sprintf("failed to write row %d", i+1), Cause: err}
		}
	}

	if err := e.styleHeader(f, sheet); err != nil {
		return nil, &Error{Target: e.Path, Message: "failed to style header", Cause: err}
	}

	if err := f.SaveAs(e.Path); err != nil {
		return nil, &Error{Target: e.Path, Message: "failed to save workbook", Cause: err}
	}

	logger.Info("Exported records to Excel",
		zap.String("path", e.Path),
		zap.Int("records", len(records.Employees)))

	return &Result{Target: e.Path, StartRow: 1, Rows: len(records.Employees), HeaderWritten: true}, nil
}

func (e *ExcelExporter) styleHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(HeaderRow()))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
