// Package segment turns raw scraped container text into per-instance text and links.
//
// The input is the plain-text dump produced by the browser-side scraper: a
// sequence of sections, each introduced by a header of the form
//
//	=== CONTAINER #<n> - Instance #<m> ===
//
// and followed by the body text of that instance up to the next header.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/team-extractor/internal/types"
)

const (
	headingMarker = "## "
	linksSentinel = "Links:"
)

var (
	headerPattern = regexp.MustCompile(`=== CONTAINER #(\d+) - Instance #(\d+) ===`)
	// columnGap splits lines that the scraper padded into aligned columns.
	columnGap = regexp.MustCompile(` {2,}`)
)

// section is one header plus the body that follows it.
type section struct {
	containerID string
	instanceID  string
	body        string
}

// Segment splits raw text into a ContainerMap. Empty input yields an empty
// map. IDs are kept as the matched digit strings. A header that repeats an
// earlier (container, instance) pair replaces that entry's body in place and
// is reported as a warning.
func Segment(raw string) (types.ContainerMap, []Warning) {
	var result types.ContainerMap
	if strings.TrimSpace(raw) == "" {
		return result, nil
	}

	var warnings []Warning
	seen := make(map[[2]string]int)
	for i, sec := range splitSections(raw) {
		if strings.TrimSpace(sec.body) == "" {
			continue
		}
		key := [2]string{sec.containerID, sec.instanceID}
		if prev, ok := seen[key]; ok {
			warnings = append(warnings, Warning{
				ContainerID: sec.containerID,
				InstanceID:  sec.instanceID,
				Err:         &ParseError{Section: i + 1, Message: fmt.Sprintf("duplicate header replaces section %d", prev)},
			})
		}
		seen[key] = i + 1
		result.Put(sec.containerID, sec.instanceID, processContent(strings.TrimSpace(sec.body)))
	}

	return result, warnings
}

// splitSections locates every header and pairs it with the text up to the
// next header. Text before the first header is discarded.
func splitSections(raw string) []section {
	matches := headerPattern.FindAllStringSubmatchIndex(raw, -1)
	sections := make([]section, 0, len(matches))
	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, section{
			containerID: raw[m[2]:m[3]],
			instanceID:  raw[m[4]:m[5]],
			body:        raw[m[1]:end],
		})
	}
	return sections
}

// processContent separates link-bearing tokens from text tokens. A token with
// any URL in it contributes its links only, never text.
func processContent(content string) types.ContainerInstance {
	var textLines []string
	links := newLinkSet()

	for _, line := range strings.Split(content, "\n") {
		for _, token := range columnGap.Split(strings.TrimSpace(line), -1) {
			token = strings.TrimSpace(token)
			token = strings.TrimPrefix(token, headingMarker)
			if token == "" {
				continue
			}

			hasLink := false
			for _, word := range strings.Fields(token) {
				if link, ok := ExtractLink(word); ok {
					hasLink = true
					links.add(link)
				}
			}

			if !hasLink && token != linksSentinel {
				textLines = append(textLines, token)
			}
		}
	}

	return types.ContainerInstance{
		Text:  strings.Join(textLines, "\n"),
		Links: links.links,
	}
}
