package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/team-extractor/internal/reconcile"
	"github.com/jonathan/team-extractor/internal/schemas"
	"github.com/jonathan/team-extractor/internal/types"
)

// DecodeRecordSet parses a saved {"employees": [...]} document into a
// normalized RecordSet. Shape errors wrap ErrInvalidRecordSet.
func DecodeRecordSet(data []byte) (*types.RecordSet, error) {
	if err := schemas.ValidateEmployeeList(string(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordSet, err)
	}

	var raw struct {
		Employees []map[string]any `json:"employees"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordSet, err)
	}

	rs := &types.RecordSet{Employees: make([]types.EmployeeRecord, 0, len(raw.Employees))}
	for _, emp := range raw.Employees {
		rs.Append(reconcile.Normalize(emp))
	}
	return rs, nil
}

// EncodeRecordSet renders records as indented JSON.
func EncodeRecordSet(rs types.RecordSet) ([]byte, error) {
	if rs.Employees == nil {
		rs.Employees = []types.EmployeeRecord{}
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}
