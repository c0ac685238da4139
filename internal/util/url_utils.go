// Package util provides URL helpers shared by the extractor and the pipeline.
package util

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"rosterscraper/internal/models"
)

var entityIDPattern = regexp.MustCompile(`/player/(\d+)`)

// ResolveURL resolves a potentially relative URL against a base URL.
func ResolveURL(base *url.URL, href string) *url.URL {
	// Trim leading/trailing whitespace and control characters from the href
	href = strings.TrimSpace(href)

	// Ignore empty, javascript, mailto, or anchor links
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "#") {
		return nil
	}

	rel, err := url.Parse(href)
	if err != nil {
		log.Debug().Str("href", href).Err(err).Msg("Failed to parse href")
		return nil
	}
	if base == nil {
		return rel
	}
	return base.ResolveReference(rel)
}

// SanitizeURL drops the query string and fragment, so "/player/1/?type=all"
// and "/player/1/" collapse to the same detail URL.
func SanitizeURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	sanitized := *u
	sanitized.RawQuery = ""
	sanitized.ForceQuery = false
	sanitized.Fragment = ""
	sanitized.RawFragment = ""
	return &sanitized
}

// NormalizeURL resolves href against base and returns the sanitized absolute
// string, or "" when href is not a navigable link.
func NormalizeURL(base *url.URL, href string) string {
	resolved := ResolveURL(base, href)
	if resolved == nil {
		return ""
	}
	return SanitizeURL(resolved).String()
}

// EntityID extracts the numeric player id from a detail path or URL.
func EntityID(href string) string {
	m := entityIDPattern.FindStringSubmatch(href)
	if m == nil {
		return models.Sentinel
	}
	return m[1]
}

// Slug returns the trailing path segment of a listing URL, used to name output files.
func Slug(rawURL string) string {
	trimmed := strings.Trim(strings.TrimSpace(rawURL), "/")
	if u, err := url.Parse(trimmed); err == nil && u.Host != "" {
		trimmed = strings.Trim(u.Path, "/")
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "team"
	}
	return trimmed
}
