// Package reconcile normalizes extraction output into the fixed employee
// record schema and merges listing-page records with profile-page records.
package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/team-extractor/internal/types"
)

// AdditionalLinksSeparator joins list-valued Additional Links into one cell.
const AdditionalLinksSeparator = "; "

// Normalize converts a raw extraction object into an EmployeeRecord. Absent
// and null fields become "", non-string scalars are stringified, and a list
// of Additional Links is joined with "; ". Keys outside the record vocabulary
// are ignored. Normalizing the map form of a normalized record returns the
// same record.
func Normalize(raw map[string]any) types.EmployeeRecord {
	var rec types.EmployeeRecord
	for _, field := range types.FieldNames() {
		rec.Set(field, FieldValue(field, raw[field]))
	}
	return rec
}

// NormalizeRecord re-applies normalization to an already typed record.
func NormalizeRecord(rec types.EmployeeRecord) types.EmployeeRecord {
	return Normalize(ToMap(rec))
}

// ToMap returns the record keyed by field name.
func ToMap(rec types.EmployeeRecord) map[string]any {
	out := make(map[string]any, len(types.FieldNames()))
	for _, field := range types.FieldNames() {
		out[field] = rec.Get(field)
	}
	return out
}

// FieldValue returns the canonical string form of one field value.
func FieldValue(field string, value any) string {
	if field == types.FieldAdditionalLinks {
		return FormatAdditionalLinks(value)
	}
	return stringify(value)
}

// FormatAdditionalLinks flattens the Additional Links value. Lists are joined
// with "; " after dropping empty entries; scalars pass through stringified.
func FormatAdditionalLinks(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return joinNonEmpty(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return joinNonEmpty(parts)
	default:
		return stringify(v)
	}
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, AdditionalLinksSeparator)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}

	// Lists and objects keep their structure in compact JSON form.
	if data, err := json.Marshal(value); err == nil {
		return string(data)
	}
	return fmt.Sprint(value)
}
