package fetch

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Fragment is the text of one element starting at an anchor, together with
// the relevant links that follow it.
type Fragment struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"meta":     true,
	"link":     true,
	"noscript": true,
}

// ExtractAnchored returns one fragment per element whose text contains
// anchor. Each fragment keeps the element text from the first occurrence of
// anchor onward and the links positioned at or after it. Links are resolved
// against pageURL and kept only when they point at LinkedIn or stay under
// pageURL. Fragments with identical text and links are reported once.
func ExtractAnchored(rawHTML, pageURL, anchor string) ([]Fragment, error) {
	if anchor == "" {
		return nil, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "invalid page URL", Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var fragments []Fragment

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if skippedElements[goquery.NodeName(s)] {
			return
		}

		fullText := nodeText(s.Nodes[0], " ")
		if fullText == "" {
			return
		}
		anchorPos := strings.Index(fullText, anchor)
		if anchorPos == -1 {
			return
		}

		links := []string{}
		s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			linkPos := strings.Index(fullText, nodeText(a.Nodes[0], ""))
			if linkPos < anchorPos {
				return
			}
			href, _ := a.Attr("href")
			if abs, ok := resolveRelevantLink(base, pageURL, href); ok {
				links = append(links, abs)
			}
		})

		text := fullText[anchorPos:]
		key := fragmentKey(text, links)
		if seen[key] {
			return
		}
		seen[key] = true
		fragments = append(fragments, Fragment{Text: text, Links: links})
	})

	return fragments, nil
}

// nodeText joins the trimmed, non-empty text nodes under n with sep.
// Script and style bodies are not text.
func nodeText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if t := strings.TrimSpace(c.Data); t != "" {
					parts = append(parts, t)
				}
			case html.ElementNode:
				if c.Data == "script" || c.Data == "style" {
					continue
				}
				walk(c)
			}
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

func resolveRelevantLink(base *url.URL, pageURL, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref).String()
	if strings.Contains(abs, "linkedin.com") || strings.HasPrefix(abs, pageURL) {
		return abs, true
	}
	return "", false
}

func fragmentKey(text string, links []string) string {
	sorted := append([]string(nil), links...)
	sort.Strings(sorted)
	return text + "\x00" + strings.Join(sorted, "")
}
