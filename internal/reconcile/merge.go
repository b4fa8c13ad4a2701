package reconcile

import "github.com/jonathan/team-extractor/internal/types"

// preservedFields always keep the listing-page value.
var preservedFields = map[string]bool{
	types.FieldName:       true,
	types.FieldProfileURL: true,
	types.FieldMainURL:    true,
}

// IsPreserved reports whether field keeps its first-pass value on merge.
func IsPreserved(field string) bool {
	return preservedFields[field]
}

// Merge overlays a profile-page record onto a listing-page record. Every
// non-preserved field takes the second value, even when it is empty.
func Merge(first, second types.EmployeeRecord) types.EmployeeRecord {
	merged := first
	for _, field := range types.FieldNames() {
		if IsPreserved(field) {
			continue
		}
		merged.Set(field, second.Get(field))
	}
	return merged
}

// MergeRaw is Merge for a raw extraction object: only the record fields
// present in second overwrite, and their values are normalized first. Keys
// outside the record vocabulary are ignored.
func MergeRaw(first types.EmployeeRecord, second map[string]any) types.EmployeeRecord {
	merged := first
	for field, value := range second {
		if !types.IsField(field) || IsPreserved(field) {
			continue
		}
		merged.Set(field, FieldValue(field, value))
	}
	return merged
}
