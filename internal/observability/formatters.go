// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/team-extractor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewInstanceID is the instance shown when previewing a container
	previewInstanceID = "1"
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PreviewText renders the first instance of a container the way it is shown
// before a container is chosen.
func PreviewText(c types.Container) string {
	inst, ok := c.Instance(previewInstanceID)
	if !ok {
		return "No data available for preview"
	}
	hrefs := make([]string, 0, len(inst.Links))
	for _, l := range inst.Links {
		hrefs = append(hrefs, l.Href)
	}
	return fmt.Sprintf("text: %s,\nLinks: %s", inst.Text, strings.Join(hrefs, ", "))
}

// PrintContainers outputs every container with its instance count and preview.
func (p *Printer) PrintContainers(containers types.ContainerMap) {
	if containers.IsEmpty() {
		p.printBox("CONTAINERS", "No containers found")
		return
	}

	for _, c := range containers.Containers {
		title := fmt.Sprintf("CONTAINER #%s (%d instances)", c.ID, len(c.Instances))
		p.printBox(title, PreviewText(c))
	}
}

// PrintRecordSet outputs a short summary of each record.
func (p *Printer) PrintRecordSet(title string, records *types.RecordSet) {
	if records == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records: %d\n", records.Len()))
	count := min(records.Len(), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := records.Employees[i]
		sb.WriteString(fmt.Sprintf("  • %s", rec.Name))
		if rec.Title != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", rec.Title))
		}
		sb.WriteString("\n")
		if rec.ProfileURL != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", rec.ProfileURL))
		}
	}
	if records.Len() > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", records.Len()-maxItemsToShow))
	}

	p.printBox(strings.ToUpper(title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCounts outputs labelled counts in the given order, skipping zeros.
func (p *Printer) PrintCounts(title string, labels []string, counts map[string]int) {
	var sb strings.Builder
	for _, label := range labels {
		if n := counts[label]; n > 0 {
			sb.WriteString(fmt.Sprintf("%-12s %d\n", label+":", n))
		}
	}
	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		content = "Nothing processed"
	}
	p.printBox(strings.ToUpper(title), content)
}

// PrintWarnings outputs non-fatal problems, one per line.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
	}
	p.printBox(fmt.Sprintf("WARNINGS (%d)", len(warnings)), strings.TrimSuffix(sb.String(), "\n"))
}
