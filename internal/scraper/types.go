package scraper

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Listing represents a single auction listing recovered from a search results page
type Listing struct {
	ItemID             string    `json:"item_id"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	CurrentPrice       float64   `json:"current_price"`
	OriginalPrice      float64   `json:"original_price,omitempty"`
	BidCount           int       `json:"bid_count"`
	BidText            string    `json:"bid_text,omitempty"`
	TimeRemaining      string    `json:"time_remaining"`
	TimeRemainingHours float64   `json:"time_remaining_hours"`
	ShippingText       string    `json:"shipping_text,omitempty"`
	Brand              string    `json:"brand,omitempty"`
	Condition          string    `json:"condition,omitempty"`
	Location           string    `json:"location,omitempty"`
	DiscountPercent    float64   `json:"discount_percent,omitempty"`
	InterestScore      float64   `json:"interest_score,omitempty"`
	FilterReasons      []string  `json:"filter_reasons,omitempty"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// Details holds optional fields scraped from a listing's detail page
type Details struct {
	OriginalPrice float64
	Condition     string
	Location      string
}

// NodeHandler resolves a sub-selection from a listing fragment. A nil or empty
// selection means the strategy did not match and the next one is tried.
type NodeHandler func(*goquery.Selection) *goquery.Selection

// TextHandler extracts a piece of text from a listing fragment. An empty
// string means the strategy did not match and the next one is tried.
type TextHandler func(*goquery.Selection) string

// applyNodeHandlers tries each handler in order and returns the first
// non-empty selection.
func applyNodeHandlers(s *goquery.Selection, handlers []NodeHandler) *goquery.Selection {
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if sel := handler(s); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// applyTextHandlers tries each handler in order and returns the first
// non-empty result.
func applyTextHandlers(s *goquery.Selection, handlers []TextHandler) string {
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if result := handler(s); result != "" {
			return result
		}
	}
	return ""
}
