package filter

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/logger"
)

// Policy holds the configurable interest criteria applied to each listing
type Policy struct {
	MinPrice              float64
	MaxPrice              float64
	PremiumBrands         []string
	MaxTimeRemainingHours float64
	MinBids               int
	ExcludeKeywords       []string
	MinDiscountPercent    float64

	// AltValueBrands backs the fallback value check used when no original
	// price is known. Kept separate from PremiumBrands on purpose; the two
	// lists have different jobs.
	AltValueBrands []string
}

// brandBonus pairs a brand substring with its score bonus; first match wins
type brandBonus struct {
	brand string
	bonus float64
}

var brandBonuses = []brandBonus{
	{"MacBook", 3},
	{"ThinkPad", 2},
	{"XPS", 2},
	{"Surface", 2},
	{"Alienware", 3},
}

// Filter evaluates listings against a policy, scores the survivors and
// returns them ranked
type Filter struct {
	policy Policy
	log    *logger.Logger
}

// New creates a new interest filter for the given policy
func New(policy Policy) *Filter {
	return &Filter{
		policy: policy,
		log:    logger.ForFilter(),
	}
}

// Apply runs every listing through the predicate cascade, enriches the
// survivors with derived fields and returns them sorted by interest score
// descending. Ties keep their input order. The input slice is not mutated.
func (f *Filter) Apply(listings []scraper.Listing) []scraper.Listing {
	f.log.Info().Int("listings", len(listings)).Msg("Filtering listings")

	var matched []scraper.Listing
	for i := range listings {
		enriched, ok := f.evaluate(listings[i])
		if ok {
			matched = append(matched, enriched)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].InterestScore > matched[j].InterestScore
	})

	f.log.Info().Int("matched", len(matched)).Msg("Interesting listings found")
	return matched
}

// evaluate applies the predicate cascade to a copy of the listing. A panic on
// one record is recovered and the record excluded; a malformed record never
// aborts the whole pass.
func (f *Filter) evaluate(listing scraper.Listing) (enriched scraper.Listing, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Warn().
				Str("item_id", listing.ItemID).
				Interface("panic", r).
				Msg("Recovered while evaluating listing")
			ok = false
		}
	}()

	enriched = listing

	if !f.priceInRange(enriched) {
		return enriched, false
	}
	if !f.isPremiumBrand(&enriched) {
		return enriched, false
	}
	if !f.timeRemainingValid(enriched) {
		return enriched, false
	}
	if enriched.BidCount < f.policy.MinBids {
		return enriched, false
	}
	if f.hasExcludedKeyword(enriched) {
		return enriched, false
	}
	if !f.hasGoodValue(&enriched) {
		return enriched, false
	}

	enriched.InterestScore = f.score(enriched)
	enriched.FilterReasons = f.reasons(enriched)
	return enriched, true
}

func (f *Filter) priceInRange(listing scraper.Listing) bool {
	return f.policy.MinPrice <= listing.CurrentPrice && listing.CurrentPrice <= f.policy.MaxPrice
}

// isPremiumBrand checks the detected brand against the configured list and
// falls back to a title scan, backfilling the brand on a match
func (f *Filter) isPremiumBrand(listing *scraper.Listing) bool {
	if listing.Brand != "" {
		return slices.Contains(f.policy.PremiumBrands, listing.Brand)
	}

	titleLower := strings.ToLower(listing.Title)
	for _, brand := range f.policy.PremiumBrands {
		if strings.Contains(titleLower, strings.ToLower(brand)) {
			listing.Brand = brand
			return true
		}
	}
	return false
}

// timeRemainingValid excludes already-ended listings and the unknown-duration
// sentinel
func (f *Filter) timeRemainingValid(listing scraper.Listing) bool {
	return 0 < listing.TimeRemainingHours && listing.TimeRemainingHours <= f.policy.MaxTimeRemainingHours
}

func (f *Filter) hasExcludedKeyword(listing scraper.Listing) bool {
	titleLower := strings.ToLower(listing.Title)
	for _, keyword := range f.policy.ExcludeKeywords {
		if strings.Contains(titleLower, strings.ToLower(keyword)) {
			f.log.Debug().
				Str("keyword", keyword).
				Str("title", listing.Title).
				Msg("Listing excluded by keyword")
			return true
		}
	}
	return false
}

// hasGoodValue requires a sufficient discount when an original price is
// known; otherwise it falls back to the alternative value heuristic
func (f *Filter) hasGoodValue(listing *scraper.Listing) bool {
	if listing.OriginalPrice <= 0 || listing.OriginalPrice <= listing.CurrentPrice {
		return f.alternativeValueCheck(*listing)
	}

	discount := (listing.OriginalPrice - listing.CurrentPrice) / listing.OriginalPrice * 100
	listing.DiscountPercent = discount

	return discount >= f.policy.MinDiscountPercent
}

// alternativeValueCheck accepts highly desirable brands up to a higher price
// point when bidding is active, and anything else only at a low price
func (f *Filter) alternativeValueCheck(listing scraper.Listing) bool {
	for _, brand := range f.policy.AltValueBrands {
		if strings.Contains(listing.Brand, brand) {
			if listing.CurrentPrice <= 1500 && listing.BidCount >= 5 {
				return true
			}
			break
		}
	}

	return listing.CurrentPrice <= 800 && listing.BidCount >= f.policy.MinBids
}

// score computes the additive interest score, rounded to two decimals
func (f *Filter) score(listing scraper.Listing) float64 {
	score := 0.0

	if listing.DiscountPercent > 0 {
		score += listing.DiscountPercent / 10
	}

	score += math.Min(float64(listing.BidCount)/2, 10)

	switch {
	case listing.TimeRemainingHours <= 1:
		score += 5
	case listing.TimeRemainingHours <= 2:
		score += 3
	case listing.TimeRemainingHours <= 3:
		score += 1
	}

	for _, b := range brandBonuses {
		if strings.Contains(listing.Brand, b.brand) {
			score += b.bonus
			break
		}
	}

	switch {
	case listing.CurrentPrice <= 500:
		score += 3
	case listing.CurrentPrice <= 800:
		score += 2
	case listing.CurrentPrice <= 1200:
		score += 1
	}

	return math.Round(score*100) / 100
}

// reasons builds the human-readable justification for a surviving listing.
// Purely explanatory; never used in control flow.
func (f *Filter) reasons(listing scraper.Listing) []string {
	var reasons []string

	if listing.Brand != "" {
		reasons = append(reasons, fmt.Sprintf("Premium brand: %s", listing.Brand))
	}
	if listing.DiscountPercent > 0 {
		reasons = append(reasons, fmt.Sprintf("Discount: %.1f%%", listing.DiscountPercent))
	}
	if listing.BidCount >= f.policy.MinBids {
		reasons = append(reasons, fmt.Sprintf("High activity: %d bids", listing.BidCount))
	}
	if listing.TimeRemainingHours <= 1 {
		reasons = append(reasons, "Ending soon!")
	}
	if listing.CurrentPrice <= 500 {
		reasons = append(reasons, "Very attractive price")
	}

	return reasons
}
