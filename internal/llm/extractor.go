// Package llm - extractor.go builds the structured-extraction prompts for employee data.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/team-extractor/internal/prompts"
)

// SystemInstruction is sent as the system turn with every extraction request.
var SystemInstruction = prompts.MustGet(promptFile, "system")

const promptFile = "extraction.json"

// ExtractionSchema defines what the model must return for one kind of input.
type ExtractionSchema struct {
	Name         string        // Schema name (e.g., "EmployeeList")
	Instructions []string      // Numbered instructions placed before the field list
	RootKey      string        // Key holding the list of extracted objects
	Fields       []SchemaField // Fields of each extracted object
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Description string // Description for the LLM
	Fixed       string // Value the model must copy verbatim, if any
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var instructions strings.Builder
	for i, instruction := range schema.Instructions {
		instructions.WriteString(fmt.Sprintf("%d. %s\n", i+1, instruction))
	}

	var fields strings.Builder
	for _, field := range schema.Fields {
		fields.WriteString(fmt.Sprintf("  - %q", field.Name))
		switch {
		case field.Fixed != "":
			fields.WriteString(fmt.Sprintf(": always %q", field.Fixed))
		case field.Description != "":
			fields.WriteString(": " + field.Description)
		}
		fields.WriteString("\n")
	}

	return prompts.Format(prompts.MustGet(promptFile, "structure-records"), map[string]string{
		"Instructions": instructions.String(),
		"RootKey":      schema.RootKey,
		"Fields":       fields.String(),
		"Input":        inputText,
	})
}

func employeeFields(mainURL string) []SchemaField {
	return []SchemaField{
		{Name: "Main_URL", Fixed: mainURL, Description: "The page the data was scraped from"},
		{Name: "Name", Description: "The name of the individual."},
		{Name: "Title", Description: "Their organizational title."},
		{Name: "LinkedIn Profile Link", Description: `A valid LinkedIn URL containing "linkedin.com". If absent, return an empty string.`},
		{Name: "Individual profile URLs", Description: "A unique URL associated with the individual. If absent or invalid, return an empty string."},
		{Name: "Bio", Description: "A brief description of the individual. If absent, return an empty string."},
		{Name: "Sector Expertise", Description: `Based on 'Bio', summarize the individual's sector expertise (e.g., "Cloud Computing", "Marketing").`},
		{Name: "Additional Information", Description: "Any other relevant facts. Return an empty string if nothing is found."},
		{Name: "Additional Links", Description: "Other links about the individual. Return an empty string if nothing is found."},
	}
}

// EmployeeListSchema returns the schema for a listing-page block that may
// describe any number of people. mainURL is echoed into every record.
func EmployeeListSchema(mainURL string) ExtractionSchema {
	return ExtractionSchema{
		Name: "EmployeeList",
		Instructions: []string{
			"Do not skip any data. If there are 100 results, return all 100.",
			"You are a JSON-only response bot, specialized in processing employee data.",
		},
		RootKey: "employees",
		Fields:  employeeFields(mainURL),
	}
}

// SingleEmployeeSchema returns the schema for a profile page that describes
// exactly one person.
func SingleEmployeeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "SingleEmployee",
		Instructions: []string{
			"Remember the whole data is with respect to only a single employee.",
			"You are a JSON-only response bot, specialized in processing employee data.",
		},
		RootKey: "employees",
		Fields:  employeeFields(""),
	}
}
