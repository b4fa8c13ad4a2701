package segment

import (
	"regexp"

	"github.com/jonathan/team-extractor/internal/types"
)

// linkPattern matches an http(s) URL, optionally introduced by a "Link N: " label.
var linkPattern = regexp.MustCompile(`(?:Link \d+: )?(https?://\S+)`)

// ExtractLink returns the first URL found in token. The "Link N: " label, if
// present, is not part of the returned href.
func ExtractLink(token string) (types.Link, bool) {
	m := linkPattern.FindStringSubmatch(token)
	if m == nil {
		return types.Link{}, false
	}
	return types.Link{Href: m[1]}, true
}

// linkSet collects links in first-seen order, dropping exact href duplicates.
type linkSet struct {
	seen  map[string]bool
	links []types.Link
}

func newLinkSet() *linkSet {
	return &linkSet{seen: make(map[string]bool), links: make([]types.Link, 0)}
}

func (s *linkSet) add(l types.Link) {
	if s.seen[l.Href] {
		return
	}
	s.seen[l.Href] = true
	s.links = append(s.links, l)
}
