package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Field names of the employee record vocabulary. These are the exact keys the
// extraction service returns and the column headers written on export.
const (
	FieldMainURL               = "Main_URL"
	FieldName                  = "Name"
	FieldTitle                 = "Title"
	FieldLinkedIn              = "LinkedIn Profile Link"
	FieldProfileURL            = "Individual profile URLs"
	FieldBio                   = "Bio"
	FieldSectorExpertise       = "Sector Expertise"
	FieldAdditionalInformation = "Additional Information"
	FieldAdditionalLinks       = "Additional Links"
)

var fieldNames = []string{
	FieldMainURL,
	FieldName,
	FieldTitle,
	FieldLinkedIn,
	FieldProfileURL,
	FieldBio,
	FieldSectorExpertise,
	FieldAdditionalInformation,
	FieldAdditionalLinks,
}

// FieldNames returns the record vocabulary in export column order.
func FieldNames() []string {
	out := make([]string, len(fieldNames))
	copy(out, fieldNames)
	return out
}

// IsField reports whether name belongs to the record vocabulary.
func IsField(name string) bool {
	for _, f := range fieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// EmployeeRecord is one team member. Every field is always present; missing
// values are the empty string.
type EmployeeRecord struct {
	MainURL               string `json:"Main_URL" validate:"omitempty,url"`
	Name                  string `json:"Name"`
	Title                 string `json:"Title"`
	LinkedIn              string `json:"LinkedIn Profile Link" validate:"omitempty,url"`
	ProfileURL            string `json:"Individual profile URLs" validate:"omitempty,url|startswith=/"`
	Bio                   string `json:"Bio"`
	SectorExpertise       string `json:"Sector Expertise"`
	AdditionalInformation string `json:"Additional Information"`
	AdditionalLinks       string `json:"Additional Links"`
}

// Get returns the value of a vocabulary field. Unknown names return "".
func (r EmployeeRecord) Get(field string) string {
	if p := r.field(field); p != nil {
		return *p
	}
	return ""
}

// Set assigns a vocabulary field and reports whether the name was known.
func (r *EmployeeRecord) Set(field, value string) bool {
	p := r.field(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Values returns the field values in FieldNames order.
func (r EmployeeRecord) Values() []string {
	out := make([]string, 0, len(fieldNames))
	for _, f := range fieldNames {
		out = append(out, r.Get(f))
	}
	return out
}

// Validate checks URL-bearing fields. A failing record is still kept; callers
// use the error for reporting only.
func (r *EmployeeRecord) Validate() error {
	return validate.Struct(r)
}

func (r *EmployeeRecord) field(name string) *string {
	switch name {
	case FieldMainURL:
		return &r.MainURL
	case FieldName:
		return &r.Name
	case FieldTitle:
		return &r.Title
	case FieldLinkedIn:
		return &r.LinkedIn
	case FieldProfileURL:
		return &r.ProfileURL
	case FieldBio:
		return &r.Bio
	case FieldSectorExpertise:
		return &r.SectorExpertise
	case FieldAdditionalInformation:
		return &r.AdditionalInformation
	case FieldAdditionalLinks:
		return &r.AdditionalLinks
	}
	return nil
}

// RecordSet is an ordered batch of employee records, serialized as
// {"employees": [...]}.
type RecordSet struct {
	Employees []EmployeeRecord `json:"employees"`
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Employees)
}

// Append adds records to the end of the set.
func (s *RecordSet) Append(records ...EmployeeRecord) {
	s.Employees = append(s.Employees, records...)
}
