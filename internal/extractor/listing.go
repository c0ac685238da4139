package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"rosterscraper/internal/models"
	"rosterscraper/internal/util"
)

const (
	// MinListingColumns is the number of cells a roster row needs to be usable.
	MinListingColumns = 8

	listingRowSelector  = "table tbody tr"
	listingLinkSelector = "td.col-name a[href^='/player/'], tbody a[href^='/player/']"

	nameColumn      = 1
	ageColumn       = 2
	overallColumn   = 3
	potentialColumn = 4
)

// ListingStats summarizes a listing extraction pass.
type ListingStats struct {
	Rows    int
	Skipped int
}

// ExtractEntityReferences reads the roster table and returns one reference per
// usable row, in table order. Rows with too few cells or no player anchor are
// skipped with a warning. baseURL resolves relative detail links.
func (e *Extractor) ExtractEntityReferences(markup string, baseURL *url.URL) ([]models.EntityReference, ListingStats) {
	var stats ListingStats
	doc, err := e.parse(markup)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse listing markup")
		return nil, stats
	}

	refs := make([]models.EntityReference, 0)
	doc.Find(listingRowSelector).Each(func(i int, row *goquery.Selection) {
		stats.Rows++
		idx := i + 1

		cols := row.Find("td")
		if cols.Length() < MinListingColumns {
			stats.Skipped++
			log.Warn().Int("row", idx).Int("columns", cols.Length()).Msg("Skipping row due to incompleteness")
			return
		}

		nameCell := cols.Eq(nameColumn)
		anchor := nameCell.Find("a").First()
		if anchor.Length() == 0 {
			stats.Skipped++
			log.Warn().Int("row", idx).Msg("Skipping row without player link")
			return
		}
		href, ok := anchor.Attr("href")
		detailURL := util.NormalizeURL(baseURL, href)
		if !ok || detailURL == "" {
			stats.Skipped++
			log.Warn().Int("row", idx).Msg("Skipping row with empty player link")
			return
		}

		position := models.Sentinel
		if pos := nameCell.Find("span.pos").First(); pos.Length() > 0 {
			position = orSentinel(pos.Text())
		}

		refs = append(refs, models.EntityReference{
			ID:        util.EntityID(href),
			Name:      orSentinel(anchor.Text()),
			DetailURL: detailURL,
			Age:       orSentinel(cols.Eq(ageColumn).Text()),
			Overall:   orSentinel(cols.Eq(overallColumn).Text()),
			Potential: orSentinel(cols.Eq(potentialColumn).Text()),
			Position:  position,
		})
	})

	return refs, stats
}

// ExtractEntityLinks collects every player anchor on the listing page and
// returns the absolute detail URLs with query strings stripped. Repeats are
// kept; callers de-duplicate while preserving order.
func (e *Extractor) ExtractEntityLinks(markup string, baseURL *url.URL) []string {
	doc, err := e.parse(markup)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse listing markup")
		return nil
	}

	links := make([]string, 0)
	doc.Find(listingLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/player/") {
			return
		}
		if u := util.NormalizeURL(baseURL, href); u != "" {
			links = append(links, u)
		}
	})
	return links
}
