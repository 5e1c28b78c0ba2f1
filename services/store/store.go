package store

import "github.com/fermingonzalezs/scrapper-bot/internal/scraper"

// Store tracks which listings were already surfaced so the same find is not
// reported twice
type Store interface {
	// Exists reports whether a listing was already recorded
	Exists(itemID string) (bool, error)

	// Record marks a listing as surfaced
	Record(listing scraper.Listing) error

	// Close closes the store connection
	Close() error
}
