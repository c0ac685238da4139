package extractor

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	xhtml "golang.org/x/net/html"

	"rosterscraper/internal/models"
)

const (
	labelPreferredFoot = "Preferred foot"
	labelSkillMoves    = "Skill moves"
	labelWeakFoot      = "Weak foot"
	labelContractUntil = "Contract valid until"

	roleValue = "Value"
	roleWage  = "Wage"
)

var contractDurationPattern = regexp.MustCompile(`\d{4}\s*~\s*\d{4}`)

// ExtractEntityDetail mines a player profile page. It is total: any input,
// including an empty string, yields a detail whose missing fields are "-".
// A "Page not found" placeholder returns an all-sentinel detail without
// building a DOM.
func (e *Extractor) ExtractEntityDetail(markup string) models.EntityDetail {
	detail := models.EmptyDetail()
	if IsNotFoundPage(markup) {
		return detail
	}

	doc, err := e.parse(markup)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to parse detail markup")
		return detail
	}

	applyStructuredData(doc, &detail)

	contractUntil := applyLabeledParagraphs(doc, &detail)
	applyInfoRoles(doc, &detail)

	if duration := contractDuration(doc); duration != "" {
		detail.ContractEnd = duration
	} else {
		detail.ContractEnd = orSentinel(contractUntil)
	}

	return detail
}

// applyStructuredData reads height, weight and nationality from the embedded
// JSON-LD block. A malformed block is ignored.
func applyStructuredData(doc *goquery.Document, detail *models.EntityDetail) {
	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return
	}

	var raw any
	if err := json.Unmarshal([]byte(script.Text()), &raw); err != nil {
		log.Debug().Err(err).Msg("Ignoring malformed structured data block")
		return
	}

	data, ok := raw.(map[string]any)
	if !ok {
		if list, isList := raw.([]any); isList && len(list) > 0 {
			data, ok = list[0].(map[string]any)
		}
		if !ok {
			return
		}
	}

	setOnce(&detail.Height, jsonScalar(data["height"]))
	setOnce(&detail.Weight, jsonScalar(data["weight"]))
	setOnce(&detail.Nationality, jsonScalar(data["nationality"]))
}

// jsonScalar renders a JSON-LD property as text. Objects such as
// {"@type":"Country","name":"Brazil"} resolve through their name or value.
func jsonScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		for _, key := range []string{"name", "value"} {
			if s := jsonScalar(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// applyLabeledParagraphs scans <p><label>..</label>value</p> pairs. It returns
// the "Contract valid until" value, which only serves as a fallback.
func applyLabeledParagraphs(doc *goquery.Document, detail *models.EntityDetail) string {
	contractUntil := models.Sentinel
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		label := p.Find("label").First()
		if label.Length() == 0 {
			return
		}

		text := strings.TrimSpace(label.Text())
		value := strippedText(p)
		if text != "" {
			value = strings.ReplaceAll(value, text, "")
		}

		switch text {
		case labelPreferredFoot:
			setOnce(&detail.PreferredFoot, value)
		case labelSkillMoves:
			setOnce(&detail.SkillMoves, value)
		case labelWeakFoot:
			setOnce(&detail.WeakFoot, value)
		case labelContractUntil:
			setOnce(&contractUntil, value)
		}
	})
	return contractUntil
}

// applyInfoRoles reads market value and wage from div.info containers.
func applyInfoRoles(doc *goquery.Document, detail *models.EntityDetail) {
	doc.Find("div.info").Each(func(_ int, div *goquery.Selection) {
		label := div.Find("label").First()
		if label.Length() == 0 {
			return
		}

		text := label.Text()
		switch {
		case strings.Contains(text, roleValue):
			setOnce(&detail.MarketValue, strings.ReplaceAll(strippedText(div), roleValue, ""))
		case strings.Contains(text, roleWage):
			setOnce(&detail.Wage, strings.ReplaceAll(strippedText(div), roleWage, ""))
		}
	})
}

// contractDuration looks for "YYYY ~ YYYY" in the node right after the first
// position marker.
func contractDuration(doc *goquery.Document) string {
	pos := doc.Find("span.pos").First()
	if pos.Length() == 0 {
		return ""
	}
	next := pos.Nodes[0].NextSibling
	if next == nil {
		return ""
	}

	var text string
	if next.Type == xhtml.TextNode {
		text = next.Data
	} else {
		text = goquery.NewDocumentFromNode(next).Text()
	}
	return contractDurationPattern.FindString(text)
}
