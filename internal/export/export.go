// Package export writes finished record sets to tabular stores.
package export

import (
	"context"
	"fmt"

	"github.com/jonathan/team-extractor/internal/types"
)

// Exporter writes records to a tabular target.
type Exporter interface {
	Export(ctx context.Context, records types.RecordSet) (*Result, error)
}

// Result describes a completed export.
type Result struct {
	Target   string `json:"target"`
	StartRow int    `json:"start_row"`
	Rows     int    `json:"rows"`
	// HeaderWritten is true when the first written row is the header.
	HeaderWritten bool `json:"header_written"`
}

// Error represents an export failure. Records are never modified by an
// export, so a failed export can be retried with the same set.
type Error struct {
	Target  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export to %s failed: %s: %v", e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("export to %s failed: %s", e.Target, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HeaderRow returns the field names in column order.
func HeaderRow() []string {
	return types.FieldNames()
}

// Rows converts records to string rows in column order, optionally
// preceded by the header row.
func Rows(records types.RecordSet, includeHeader bool) [][]string {
	rows := make([][]string, 0, len(records.Employees)+1)
	if includeHeader {
		rows = append(rows, HeaderRow())
	}
	for _, rec := range records.Employees {
		rows = append(rows, rec.Values())
	}
	return rows
}
