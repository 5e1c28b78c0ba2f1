package telegram

import (
	"fmt"

	"github.com/fermingonzalezs/scrapper-bot/helpers"
	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
)

const maxTitleLength = 60

// FormatListing renders one listing as a Markdown chat message
func FormatListing(listing scraper.Listing, position int) string {
	title := helpers.TruncateText(listing.Title, maxTitleLength)

	message := fmt.Sprintf("*%d. %s*\n\n", position, title)
	message += fmt.Sprintf("💰 *Current price:* $%.2f\n", listing.CurrentPrice)
	message += fmt.Sprintf("🔨 *Bids:* %d\n", listing.BidCount)
	message += fmt.Sprintf("⏰ *Ends in:* %s\n", listing.TimeRemaining)

	if listing.Brand != "" {
		message += fmt.Sprintf("🏢 *Brand:* %s\n", listing.Brand)
	}
	if listing.DiscountPercent > 0 {
		message += fmt.Sprintf("🏷 *Discount:* %.1f%%\n", listing.DiscountPercent)
	}
	if listing.InterestScore > 0 {
		message += fmt.Sprintf("⭐ *Interest score:* %.2f\n", listing.InterestScore)
	}

	if listing.URL != "" {
		message += fmt.Sprintf("\n🔗 [View on eBay](%s)", listing.URL)
	}

	return message
}
