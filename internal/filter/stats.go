package filter

import (
	"math"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
)

// Stats aggregates a filter pass for reporting
type Stats struct {
	TotalListings    int            `json:"total_listings"`
	Matched          int            `json:"matched"`
	MatchRate        float64        `json:"match_rate"`
	AvgInterestScore float64        `json:"avg_interest_score"`
	TopBrands        map[string]int `json:"top_brands"`

	// Price distribution buckets: under_500, 500_1000, 1000_1500, over_1500
	PriceDistribution map[string]int `json:"price_distribution"`
}

// Summarize computes pass-through rate, mean score and brand/price histograms
// over the surviving listings. Pure aggregation, no side effects.
func Summarize(all, matched []scraper.Listing) Stats {
	stats := Stats{
		TotalListings: len(all),
		Matched:       len(matched),
		TopBrands:     make(map[string]int),
		PriceDistribution: map[string]int{
			"under_500": 0,
			"500_1000":  0,
			"1000_1500": 0,
			"over_1500": 0,
		},
	}

	if len(all) > 0 {
		stats.MatchRate = round2(float64(len(matched)) / float64(len(all)) * 100)
	}

	if len(matched) == 0 {
		return stats
	}

	scoreSum := 0.0
	for _, listing := range matched {
		scoreSum += listing.InterestScore

		brand := listing.Brand
		if brand == "" {
			brand = "Unknown"
		}
		stats.TopBrands[brand]++

		switch {
		case listing.CurrentPrice < 500:
			stats.PriceDistribution["under_500"]++
		case listing.CurrentPrice < 1000:
			stats.PriceDistribution["500_1000"]++
		case listing.CurrentPrice < 1500:
			stats.PriceDistribution["1000_1500"]++
		default:
			stats.PriceDistribution["over_1500"]++
		}
	}
	stats.AvgInterestScore = round2(scoreSum / float64(len(matched)))

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
