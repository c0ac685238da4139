// Package extractor turns rendered sofifa.com markup into structured records.
//
// Every lookup is layered: the most reliable markup shape is tried first and
// each field falls back independently to models.Sentinel. Extraction never
// fails on malformed input; it degrades field by field.
package extractor

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"

	"rosterscraper/internal/models"
)

// ErrPageNotFound marks a detail page that rendered the site's 404 placeholder.
var ErrPageNotFound = errors.New("extractor: page not found")

const notFoundTitle = "Page not found"

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Extractor parses markup with goquery. It counts how many documents it has
// parsed so callers can verify that short-circuit paths skip the DOM entirely.
type Extractor struct {
	parses int
}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Parses returns the number of markup documents parsed so far.
func (e *Extractor) Parses() int {
	return e.parses
}

func (e *Extractor) parse(markup string) (*goquery.Document, error) {
	e.parses++
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// IsNotFoundPage reports whether markup is the site's "not found" placeholder.
// It only scans the <title> element, without building a DOM.
func IsNotFoundPage(markup string) bool {
	m := titlePattern.FindStringSubmatch(markup)
	if m == nil {
		return false
	}
	return strings.Contains(html.UnescapeString(m[1]), notFoundTitle)
}

// strippedText concatenates every text node under sel with surrounding
// whitespace removed from each node.
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		collectStripped(n, &b)
	}
	return b.String()
}

func collectStripped(n *xhtml.Node, b *strings.Builder) {
	if n.Type == xhtml.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectStripped(c, b)
	}
}

// orSentinel trims s and substitutes the sentinel for an empty result.
func orSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Sentinel
	}
	return s
}

// setOnce assigns v to *field only when the field is still unset, so the
// first layer that finds a value wins.
func setOnce(field *string, v string) {
	if *field == models.Sentinel {
		*field = orSentinel(v)
	}
}
