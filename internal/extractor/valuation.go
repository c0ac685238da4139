package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"rosterscraper/internal/models"
)

// ExtractValuation reads the player name, market value and wage from a
// profile page. Like ExtractEntityDetail it never fails; missing fields are "-".
func (e *Extractor) ExtractValuation(markup string) models.Valuation {
	v := models.EmptyValuation()
	if IsNotFoundPage(markup) {
		return v
	}

	doc, err := e.parse(markup)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to parse valuation markup")
		return v
	}

	setOnce(&v.Name, doc.Find("h1").First().Text())

	doc.Find("div.grid div.col").Each(func(_ int, col *goquery.Selection) {
		sub := col.Find("div.sub").First()
		if sub.Length() == 0 {
			return
		}
		em := col.Find("em").First()
		if em.Length() == 0 {
			return
		}

		switch strings.TrimSpace(sub.Text()) {
		case roleValue:
			setOnce(&v.MarketValue, em.Text())
		case roleWage:
			setOnce(&v.Wage, em.Text())
		}
	})

	return v
}
