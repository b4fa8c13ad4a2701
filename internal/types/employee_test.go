package types

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRecord_JSONUsesFieldVocabulary(t *testing.T) {
	rec := EmployeeRecord{
		MainURL:         "https://example.com/team",
		Name:            "Jane Doe",
		LinkedIn:        "https://linkedin.com/in/jane",
		ProfileURL:      "/team/jane",
		AdditionalLinks: "https://a.com; https://b.com",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, f := range FieldNames() {
		assert.Contains(t, raw, f)
	}
	assert.Equal(t, "/team/jane", raw["Individual profile URLs"])
	assert.Equal(t, "", raw["Bio"])
}

func TestEmployeeRecord_GetSet(t *testing.T) {
	var rec EmployeeRecord
	for i, f := range FieldNames() {
		require.True(t, rec.Set(f, f+"-value"), "field %d", i)
	}
	for _, f := range FieldNames() {
		assert.Equal(t, f+"-value", rec.Get(f))
	}

	assert.False(t, rec.Set("Unknown", "x"))
	assert.Equal(t, "", rec.Get("Unknown"))
}

func TestEmployeeRecord_ValuesOrder(t *testing.T) {
	rec := EmployeeRecord{Name: "A", Title: "B", AdditionalLinks: "C"}
	values := rec.Values()

	require.Len(t, values, len(FieldNames()))
	assert.Equal(t, "A", values[1])
	assert.Equal(t, "B", values[2])
	assert.Equal(t, "C", values[8])
}

func TestEmployeeRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     EmployeeRecord
		wantErr bool
	}{
		{name: "empty record", rec: EmployeeRecord{}},
		{name: "absolute urls", rec: EmployeeRecord{MainURL: "https://x.com", ProfileURL: "https://x.com/a"}},
		{name: "relative profile url", rec: EmployeeRecord{ProfileURL: "/team/a"}},
		{name: "bad linkedin", rec: EmployeeRecord{LinkedIn: "not a url"}, wantErr: true},
		{name: "bad main url", rec: EmployeeRecord{MainURL: "team page"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmployeeRecord_ValidateConcurrent(t *testing.T) {
	good := EmployeeRecord{LinkedIn: "https://linkedin.com/in/jane"}
	bad := EmployeeRecord{LinkedIn: "not a url"}

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				errs[i] = good.Validate()
			} else {
				errs[i] = bad.Validate()
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 0 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestFieldNames_ReturnsCopy(t *testing.T) {
	names := FieldNames()
	names[0] = "mutated"
	assert.Equal(t, FieldMainURL, FieldNames()[0])
	assert.True(t, IsField("Bio"))
	assert.False(t, IsField("bio"))
}

func TestRecordSet_LenAndAppend(t *testing.T) {
	var nilSet *RecordSet
	assert.Equal(t, 0, nilSet.Len())

	set := &RecordSet{}
	set.Append(EmployeeRecord{Name: "A"}, EmployeeRecord{Name: "B"})
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "B", set.Employees[1].Name)
}
