package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fermingonzalezs/scrapper-bot/helpers"
	"github.com/fermingonzalezs/scrapper-bot/pkg/errors"
)

// originalPriceSelectors locate a struck-through "was" price on a listing
// detail page across layout variants
var originalPriceSelectors = []string{
	".u-flL.condText span",
	".notranslate",
	".vi-price .notranslate",
	".u-flL span",
}

// FetchDetails loads a listing's detail page and scrapes the optional fields
// only available there: the original "was" price, condition and seller
// location. Failures are reported but are never fatal to the pipeline.
func (s *SearchScraper) FetchDetails(url string) (*Details, error) {
	body, err := s.fetchFunc(url)
	if err != nil {
		return nil, errors.NewNetwork("scraper", "failed to fetch detail page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing("scraper", "failed to parse detail page", err)
	}

	return ExtractDetails(doc), nil
}

// ExtractDetails scrapes the detail-page fields from an already parsed
// document
func ExtractDetails(doc *goquery.Document) *Details {
	return &Details{
		OriginalPrice: findOriginalPrice(doc),
		Condition:     firstText(doc, "#u_vi_condition"),
		Location:      firstText(doc, "span.vi-acc-del-range"),
	}
}

// findOriginalPrice scans the detail-page price selectors for a "was" price.
// Zero means no original price was found.
func findOriginalPrice(doc *goquery.Document) float64 {
	for _, selector := range originalPriceSelectors {
		var found float64
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if !strings.Contains(text, "$") || !helpers.ContainsFold(text, "was") {
				return true
			}
			if price, ok := ParsePrice(text); ok && price > 0 {
				found = price
				return false
			}
			return true
		})
		if found > 0 {
			return found
		}
	}
	return 0
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
