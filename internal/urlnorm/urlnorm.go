// Package urlnorm resolves the URL forms that appear in extracted records:
// site-relative profile paths, bare hostnames and placeholder links.
package urlnorm

import (
	"fmt"
	"net/url"
	"strings"
)

// BaseOf returns scheme and host ("https://www.example.com") for a URL with
// at least three "/"-separated segments. Anything shorter is returned as is.
func BaseOf(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) >= 3 {
		return strings.Join(parts[:3], "/")
	}
	return u
}

// ParentOf drops the last "/"-separated segment of u.
func ParentOf(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) <= 1 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], "/")
}

// Normalize makes a site-relative path absolute against base. Other values,
// including already absolute URLs, are returned unchanged. The result is not
// validated.
func Normalize(u, base string) string {
	if strings.HasPrefix(u, "/") {
		return strings.TrimRight(base, "/") + u
	}
	return u
}

// Format trims u and adds an https scheme when none is present.
func Format(u string) (string, error) {
	u = strings.TrimSpace(u)
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", u, err)
	}
	if parsed.Scheme == "" {
		return "https://" + u, nil
	}
	return u, nil
}

// IsPlaceholderProfileURL reports whether a profile URL returned for a listing
// page carries no information of its own: it is empty, points back at the
// listing page, or points at the listing's parent or the site root.
func IsPlaceholderProfileURL(profile, anchor string) bool {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return true
	}

	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return false
	}

	root := BaseOf(anchor)
	candidates := []string{
		anchor,
		strings.TrimRight(anchor, "/"),
		ParentOf(anchor) + "/",
		root,
		root + "/",
	}
	for _, c := range candidates {
		if profile == c {
			return true
		}
	}
	return false
}
