package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt_EmployeeList(t *testing.T) {
	prompt := BuildExtractionPrompt(EmployeeListSchema("https://example.com/team"), `{"text": "Jane Doe"}`)

	assert.Contains(t, prompt, "1. Do not skip any data.")
	assert.Contains(t, prompt, `Main key will be "employees"`)
	assert.Contains(t, prompt, `"Main_URL": always "https://example.com/team"`)
	assert.Contains(t, prompt, `"Individual profile URLs"`)
	assert.Contains(t, prompt, `"Additional Links"`)
	assert.True(t, strings.HasSuffix(prompt, "\"\"\"\n{\"text\": \"Jane Doe\"}\n\"\"\"\n"))
}

func TestBuildExtractionPrompt_SingleEmployee(t *testing.T) {
	prompt := BuildExtractionPrompt(SingleEmployeeSchema(), "Jane Doe is a partner.")

	assert.Contains(t, prompt, "only a single employee")
	assert.Contains(t, prompt, `"Main_URL": The page the data was scraped from`)
	assert.NotContains(t, prompt, "always")
}

func TestEmployeeSchemas_CoverRecordVocabulary(t *testing.T) {
	want := []string{
		"Main_URL", "Name", "Title", "LinkedIn Profile Link", "Individual profile URLs",
		"Bio", "Sector Expertise", "Additional Information", "Additional Links",
	}

	for _, schema := range []ExtractionSchema{EmployeeListSchema("u"), SingleEmployeeSchema()} {
		names := make([]string, 0, len(schema.Fields))
		for _, f := range schema.Fields {
			names = append(names, f.Name)
		}
		assert.Equal(t, want, names, schema.Name)
	}
}

func TestBuildExtractionPrompt_RawDataIsLiteral(t *testing.T) {
	prompt := BuildExtractionPrompt(SingleEmployeeSchema(), "Jane Doe {{.RootKey}}")
	assert.Contains(t, prompt, "Raw data:\n\"\"\"\nJane Doe {{.RootKey}}\n\"\"\"")
	assert.Contains(t, prompt, "Instructions:\n1. Remember")
}

func TestSystemInstruction(t *testing.T) {
	assert.Contains(t, SystemInstruction, "data structuring assistant")
}
