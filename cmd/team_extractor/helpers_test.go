package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleContainerText = `=== CONTAINER #1 - Instance #1 ===
Jane Doe
Managing Partner
https://example.com/team/jane-doe
=== CONTAINER #1 - Instance #2 ===
John Roe
Principal
https://www.linkedin.com/in/johnroe
=== CONTAINER #2 - Instance #1 ===
Portfolio
`

// getBinaryPath returns the path to the team_extractor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "team_extractor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
