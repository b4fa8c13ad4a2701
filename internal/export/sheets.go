package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jonathan/team-extractor/internal/types"
)

const (
	// DefaultSheetName is the worksheet written when none is configured.
	DefaultSheetName = "Sheet1"
	// DefaultBatchSize is the maximum number of rows per update call.
	DefaultBatchSize = 1000
)

// SheetsConfig configures a SheetsExporter.
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON is a service account key with access to the spreadsheet.
	CredentialsJSON []byte
	BatchSize       int
	// ClientOptions are passed to the Sheets client after the credentials.
	ClientOptions []option.ClientOption
	Logger        *zap.Logger
}

// SheetsExporter appends records to a Google Sheets worksheet. The header is
// written only when the sheet is empty; data always starts at the first row
// after the used part of column A.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	batchSize     int
	logger        *zap.Logger
}

// NewSheetsExporter creates a SheetsExporter. Missing configuration is
// reported here, before anything is written.
func NewSheetsExporter(ctx context.Context, cfg SheetsConfig) (*SheetsExporter, error) {
	target := "google sheets"
	if cfg.SpreadsheetID == "" {
		return nil, &Error{Target: target, Message: "spreadsheet ID is required"}
	}
	if len(cfg.CredentialsJSON) == 0 && len(cfg.ClientOptions) == 0 {
		return nil, &Error{Target: target, Message: "service account credentials not configured"}
	}
	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var opts []option.ClientOption
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts,
			option.WithCredentialsJSON(cfg.CredentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	opts = append(opts, cfg.ClientOptions...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &Error{Target: target, Message: "failed to initialize sheets service", Cause: err}
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		batchSize:     cfg.BatchSize,
		logger:        cfg.Logger,
	}, nil
}

func (e *SheetsExporter) target() string {
	return fmt.Sprintf("spreadsheet %s", e.spreadsheetID)
}

// Export implements Exporter.
func (e *SheetsExporter) Export(ctx context.Context, records types.RecordSet) (*Result, error) {
	if len(records.Employees) == 0 {
		return nil, &Error{Target: e.target(), Message: "no records to export"}
	}

	// Probe a single cell first so permission problems surface before any write.
	probeRange := fmt.Sprintf("%s!A1:A1", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, probeRange).Context(ctx).Do(); err != nil {
		return nil, &Error{
			Target:  e.target(),
			Message: "permission check failed; the service account needs editor access to the spreadsheet",
			Cause:   err,
		}
	}

	startRow, err := e.firstEmptyRow(ctx)
	if err != nil {
		return nil, err
	}

	header := startRow == 1
	rows := Rows(records, header)

	for i := 0; i < len(rows); i += e.batchSize {
		end := min(i+e.batchSize, len(rows))
		batch := make([][]interface{}, 0, end-i)
		for _, row := range rows[i:end] {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			batch = append(batch, cells)
		}

		rangeName := fmt.Sprintf("%s!A%d", e.sheetName, startRow+i)
		_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rangeName, &sheets.ValueRange{Values: batch}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return nil, &Error{Target: e.target(), Message: fmt.Sprintf("failed to write rows at %s", rangeName), Cause: err}
		}
		e.logger.Debug("wrote sheet batch", zap.String("range", rangeName), zap.Int("rows", len(batch)))
	}

	e.logger.Info("Exported records to Google Sheets",
		zap.String("spreadsheet_id", e.spreadsheetID),
		zap.Int("records", len(records.Employees)),
		zap.Int("start_row", startRow))

	return &Result{
		Target:        e.target(),
		StartRow:      startRow,
		Rows:          len(records.Employees),
		HeaderWritten: header,
	}, nil
}

// firstEmptyRow returns the row after the used part of column A.
func (e *SheetsExporter) firstEmptyRow(ctx context.Context) (int, error) {
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, fmt.Sprintf("%s!A:A", e.sheetName)).Context(ctx).Do()
	if err != nil {
		return 0, &Error{Target: e.target(), Message: "failed to read column A", Cause: err}
	}
	return len(resp.Values) + 1, nil
}
