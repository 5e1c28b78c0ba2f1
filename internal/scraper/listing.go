package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fermingonzalezs/scrapper-bot/helpers"
	"github.com/fermingonzalezs/scrapper-bot/logger"
)

// FixedPriceMarker is stored in place of a countdown for listings without one
const FixedPriceMarker = "Buy It Now"

// boilerplateTitles filters out search-page furniture that renders as a
// listing fragment but is not an actual listing
var boilerplateTitles = []string{
	"shop on ebay",
	"shop on ebayopens in a new window or tab",
	"save this search",
	"get an alert with the newest ads",
	"sponsored",
	"advertisement",
}

// itemIDPatterns are tried in order against a listing URL; the first match
// that is all digits and at least 8 characters long wins
var itemIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/itm/([^/?&]+)`),
	regexp.MustCompile(`item=(\d+)`),
	regexp.MustCompile(`/(\d{12,})`),
	regexp.MustCompile(`hash=item(\d+)`),
}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	firstInt   = regexp.MustCompile(`(\d+)`)
)

// Selector cascades for the fields of a single listing fragment. Each step is
// an independent strategy; the first one that resolves wins. The loose
// [class*=...] fallbacks cover concurrently-live page layout variants.
var (
	titleHandlers = []NodeHandler{
		func(s *goquery.Selection) *goquery.Selection { return s.Find("h3.s-item__title") },
		func(s *goquery.Selection) *goquery.Selection { return s.Find("h3[class*=title], div[class*=title]") },
		func(s *goquery.Selection) *goquery.Selection { return s.Find("a[class*=link]") },
	}

	priceHandlers = []TextHandler{
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span.s-item__price").First().Text()) },
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span[class*=price]").First().Text()) },
		func(s *goquery.Selection) string { return findSpanContaining(s, "$") },
	}

	bidHandlers = []TextHandler{
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span.s-item__bidCount").First().Text()) },
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span[class*=bid]").First().Text()) },
		func(s *goquery.Selection) string { return findSpanContaining(s, "bid") },
	}

	timeHandlers = []TextHandler{
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span.s-item__time-left").First().Text()) },
		func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("span[class*=time]").First().Text()) },
	}
)

// ListingExtractor recovers a structured Listing from one raw search-result
// fragment
type ListingExtractor struct {
	log *logger.Logger
	now func() time.Time
}

// NewListingExtractor creates a new listing extractor
func NewListingExtractor() *ListingExtractor {
	return &ListingExtractor{
		log: logger.ForScraper(),
		now: time.Now,
	}
}

// Extract parses a single listing fragment. It returns nil when the fragment
// is not a real listing or lacks a required field; a panic while processing
// one fragment is recovered so a malformed fragment never aborts the batch.
func (e *ListingExtractor) Extract(s *goquery.Selection) (listing *Listing) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Interface("panic", r).Msg("Recovered while extracting listing fragment")
			listing = nil
		}
	}()

	titleSel := applyNodeHandlers(s, titleHandlers)
	if titleSel == nil {
		return nil
	}

	title := strings.TrimSpace(titleSel.First().Text())
	if title == "" || isBoilerplateTitle(title) {
		e.log.Debug().Str("title", title).Msg("Skipping non-listing fragment")
		return nil
	}

	link := resolveLink(s, titleSel)
	if link == "" {
		return nil
	}

	itemID := ExtractItemID(link)
	if itemID == "" {
		e.log.Debug().Str("url", link).Msg("No valid item ID in listing URL")
		return nil
	}

	// A listing without a readable price is not actionable
	priceText := applyTextHandlers(s, priceHandlers)
	price, ok := ParsePrice(priceText)
	if !ok {
		e.log.Debug().Str("price_text", priceText).Msg("Unparseable price")
		return nil
	}

	bidCount, bidText := resolveBids(s)

	timeRemaining := applyTextHandlers(s, timeHandlers)
	if timeRemaining == "" {
		// Fixed-price listings legitimately lack a countdown
		timeRemaining = FixedPriceMarker
	}

	return &Listing{
		ItemID:             itemID,
		Title:              title,
		URL:                link,
		CurrentPrice:       price,
		BidCount:           bidCount,
		BidText:            bidText,
		TimeRemaining:      timeRemaining,
		TimeRemainingHours: ParseDuration(timeRemaining),
		ShippingText:       strings.TrimSpace(s.Find("span.s-item__shipping").First().Text()),
		Brand:              DetectBrand(title),
		ScrapedAt:          e.now(),
	}
}

// ExtractItemID pulls the marketplace item identifier out of a listing URL.
// Only digits-only identifiers of at least 8 characters on the marketplace
// domain are accepted.
func ExtractItemID(url string) string {
	if url == "" || !helpers.ContainsFold(url, "ebay.com") {
		return ""
	}

	for _, pattern := range itemIDPatterns {
		match := pattern.FindStringSubmatch(url)
		if match == nil {
			continue
		}
		itemID := match[1]
		if digitsOnly.MatchString(itemID) && len(itemID) >= 8 {
			return itemID
		}
	}
	return ""
}

func isBoilerplateTitle(title string) bool {
	titleLower := strings.ToLower(title)
	for _, phrase := range boilerplateTitles {
		if strings.Contains(titleLower, phrase) {
			return true
		}
	}
	return false
}

// resolveLink looks for the listing URL inside the title node first, then
// falls back to the fragment itself
func resolveLink(s, titleSel *goquery.Selection) string {
	linkSel := applyNodeHandlers(s, []NodeHandler{
		func(*goquery.Selection) *goquery.Selection { return titleSel.Closest("a[href]") },
		func(*goquery.Selection) *goquery.Selection { return titleSel.Find("a[href]") },
		func(s *goquery.Selection) *goquery.Selection { return s.Find("a.s-item__link") },
		func(s *goquery.Selection) *goquery.Selection { return s.Find("a[href]") },
	})
	if linkSel == nil {
		return ""
	}

	href, _ := linkSel.First().Attr("href")
	return strings.TrimSpace(href)
}

// resolveBids extracts the bid count; listings without bid information are
// treated as fixed-price
func resolveBids(s *goquery.Selection) (int, string) {
	bidText := applyTextHandlers(s, bidHandlers)
	if bidText == "" {
		return 0, FixedPriceMarker
	}

	match := firstInt.FindStringSubmatch(bidText)
	if match == nil {
		return 0, bidText
	}

	bids, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, bidText
	}
	return bids, bidText
}

// findSpanContaining returns the text of the first span whose text contains
// substr, ignoring case
func findSpanContaining(s *goquery.Selection, substr string) string {
	var found string
	s.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		if text != "" && helpers.ContainsFold(text, substr) {
			found = text
			return false
		}
		return true
	})
	return found
}
