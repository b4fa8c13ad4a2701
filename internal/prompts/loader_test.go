package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("extraction.json", "structure-records")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.Input}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("extraction.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("extraction.json", "structure-records")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Main key will be {{.RootKey}} for {{.Name}}"
	data := map[string]string{
		"RootKey": "employees",
		"Name":    "Jane Doe",
	}

	result := Format(template, data)
	assert.Equal(t, "Main key will be employees for Jane Doe", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_DoesNotExpandValues(t *testing.T) {
	template := "Fields: {{.Fields}}\nRaw: {{.Input}}"
	data := map[string]string{
		"Fields": "Name",
		"Input":  "literal {{.Fields}} in scraped text",
	}

	result := Format(template, data)
	assert.Equal(t, "Fields: Name\nRaw: literal {{.Fields}} in scraped text", result)
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("extraction.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"structure-records", "system"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("extraction.json", "structure-records")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("extraction.json", "structure-records")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
