package scraper

import (
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fermingonzalezs/scrapper-bot/helpers"
	"github.com/fermingonzalezs/scrapper-bot/logger"
	"github.com/fermingonzalezs/scrapper-bot/pkg/errors"
	"github.com/fermingonzalezs/scrapper-bot/services/cache"
)

// minFragmentCount is the layout-miss threshold: when a container selector
// yields fewer fragments than this, the page probably renders a different
// layout variant and a looser selector is tried.
const minFragmentCount = 5

// containerSelectors locate listing fragments on a search results page,
// ordered most specific first
var containerSelectors = []string{
	"div.s-item__wrapper.clearfix",
	"div.s-item",
	"div[class*=s-item]",
}

// SearchConfig configures a SearchScraper
type SearchConfig struct {
	SearchURL  string
	CategoryID string
	CacheKey   string
	BlockTime  time.Duration
}

// SearchScraper fetches a marketplace search results page and extracts the
// listings it contains
type SearchScraper struct {
	searchURL  string
	categoryID string
	cacheKey   string
	blockTime  time.Duration
	cacheSvc   cache.CacheService
	extractor  *ListingExtractor
	log        *logger.Logger

	fetchFunc func(url string) (io.Reader, error)
}

// NewSearchScraper creates a new search scraper
func NewSearchScraper(cfg SearchConfig, cacheSvc cache.CacheService) *SearchScraper {
	return &SearchScraper{
		searchURL:  cfg.SearchURL,
		categoryID: cfg.CategoryID,
		cacheKey:   cfg.CacheKey,
		blockTime:  cfg.BlockTime,
		cacheSvc:   cacheSvc,
		extractor:  NewListingExtractor(),
		log:        logger.ForScraper(),
		fetchFunc:  helpers.FetchWithRandomHeaders,
	}
}

// BuildSearchURL assembles the search results URL for a query
func (s *SearchScraper) BuildSearchURL(query string) string {
	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("_sacat", s.categoryID)
	params.Set("_pgn", "1")
	return s.searchURL + "?" + params.Encode()
}

// Search fetches the first search results page for a query and returns the
// listings found on it. An empty result is not an error; it means the page
// had no usable fragments.
func (s *SearchScraper) Search(query string) ([]Listing, error) {
	searchURL := s.BuildSearchURL(query)
	s.log.Info().Str("query", query).Str("url", searchURL).Msg("Searching auctions")

	body, err := s.fetchWithCache(searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing("scraper", "failed to parse search page", err)
	}

	listings := s.ExtractListings(doc)
	s.log.Info().Int("listings", len(listings)).Str("query", query).Msg("Search page extracted")
	return listings, nil
}

// ExtractListings locates listing fragments via the container cascade and
// maps the listing extractor over them. Fragments that fail extraction are
// dropped; the returned order follows document order.
func (s *SearchScraper) ExtractListings(doc *goquery.Document) []Listing {
	fragments := findListingFragments(doc, s.log)

	var listings []Listing
	fragments.Each(func(_ int, fragment *goquery.Selection) {
		if listing := s.extractor.Extract(fragment); listing != nil {
			listings = append(listings, *listing)
		}
	})
	return listings
}

// findListingFragments tries each container selector and keeps whichever
// yields the most fragments, stopping early once a specific selector already
// finds enough.
func findListingFragments(doc *goquery.Document, log *logger.Logger) *goquery.Selection {
	best := doc.Find(containerSelectors[0])
	log.Debug().Str("selector", containerSelectors[0]).Int("fragments", best.Length()).Msg("Container selector")

	for _, selector := range containerSelectors[1:] {
		if best.Length() >= minFragmentCount {
			break
		}
		candidate := doc.Find(selector)
		log.Debug().Str("selector", selector).Int("fragments", candidate.Length()).Msg("Container selector")
		if candidate.Length() > best.Length() {
			best = candidate
		}
	}
	return best
}

// fetchWithCache fetches a URL, backing off while a rate-limit block key is
// alive in the cache
func (s *SearchScraper) fetchWithCache(url string) (io.Reader, error) {
	if s.cacheSvc != nil && s.cacheKey != "" {
		if _, err := s.cacheSvc.Get(s.cacheKey); err == nil {
			return nil, errors.NewRateLimit("scraper", s.blockTime)
		}
	}

	body, err := s.fetchFunc(url)
	if err != nil {
		if s.cacheSvc != nil && s.cacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			s.cacheSvc.Set(s.cacheKey, []byte(strconv.Itoa(int(s.blockTime/time.Second))), s.blockTime)
		}
		return nil, errors.NewNetwork("scraper", "failed to fetch search page", err)
	}
	return body, nil
}
