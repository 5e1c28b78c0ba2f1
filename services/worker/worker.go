package worker

import (
	"context"
	"time"

	"github.com/fermingonzalezs/scrapper-bot/internal/filter"
	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/logger"
	"github.com/fermingonzalezs/scrapper-bot/pkg/metrics"
	"github.com/fermingonzalezs/scrapper-bot/services/store"
	"github.com/fermingonzalezs/scrapper-bot/services/telegram"
)

// Searcher runs the extraction pipeline for a query and optionally enriches a
// listing from its detail page
type Searcher interface {
	Search(query string) ([]scraper.Listing, error)
	FetchDetails(url string) (*scraper.Details, error)
}

// Notifier pushes a message to the configured chat
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// Config configures the watch worker
type Config struct {
	Query        string
	Interval     time.Duration
	FetchDetails bool
	DetailLimit  int
}

// Worker periodically runs the configured search, filters the results and
// pushes previously unseen finds to the chat
type Worker struct {
	ctx      context.Context
	searcher Searcher
	filter   *filter.Filter
	store    store.Store
	notifier Notifier
	log      *logger.Logger
	cfg      Config
}

// NewWorker creates a new watch worker
func NewWorker(ctx context.Context, searcher Searcher, f *filter.Filter, st store.Store, notifier Notifier, cfg Config) *Worker {
	return &Worker{
		ctx:      ctx,
		searcher: searcher,
		filter:   f,
		store:    st,
		notifier: notifier,
		log:      logger.ForWorker(),
		cfg:      cfg,
	}
}

// Start runs watch passes until the context is cancelled
func (w *Worker) Start() error {
	metrics.Init()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		w.RunOnce()

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single watch pass: search, filter, dedup, notify
func (w *Worker) RunOnce() {
	start := time.Now()

	listings, err := w.searcher.Search(w.cfg.Query)
	if err != nil {
		w.log.Error().Err(err).Str("query", w.cfg.Query).Msg("Search pass failed")
		if metrics.SearchesTotal != nil {
			metrics.SearchesTotal.WithLabelValues("failure").Inc()
		}
		return
	}

	if metrics.SearchesTotal != nil {
		metrics.SearchesTotal.WithLabelValues("success").Inc()
		metrics.ListingsExtracted.Add(float64(len(listings)))
	}

	if w.cfg.FetchDetails {
		w.enrichDetails(listings)
	}

	matched := w.filter.Apply(listings)
	if metrics.ListingsMatched != nil {
		metrics.ListingsMatched.Add(float64(len(matched)))
	}

	stats := filter.Summarize(listings, matched)
	w.log.Info().
		Int("total", stats.TotalListings).
		Int("matched", stats.Matched).
		Float64("match_rate", stats.MatchRate).
		Float64("avg_score", stats.AvgInterestScore).
		Msg("Watch pass finished")

	w.notifyNew(matched)

	if metrics.SearchDuration != nil {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}
}

// enrichDetails fetches detail pages for the first few listings to pick up
// original prices; bounded so a watch pass stays cheap
func (w *Worker) enrichDetails(listings []scraper.Listing) {
	limit := min(w.cfg.DetailLimit, len(listings))
	for i := 0; i < limit; i++ {
		details, err := w.searcher.FetchDetails(listings[i].URL)
		if err != nil {
			w.log.Warn().Err(err).Str("item_id", listings[i].ItemID).Msg("Detail fetch failed")
			continue
		}
		if details.OriginalPrice > 0 {
			listings[i].OriginalPrice = details.OriginalPrice
		}
		listings[i].Condition = details.Condition
		listings[i].Location = details.Location
	}
}

// notifyNew pushes listings not seen before and records them
func (w *Worker) notifyNew(matched []scraper.Listing) {
	for i, listing := range matched {
		exists, err := w.store.Exists(listing.ItemID)
		if err != nil {
			// Assume already notified on lookup errors to avoid spam
			w.log.Error().Err(err).Str("item_id", listing.ItemID).Msg("Store lookup failed")
			continue
		}
		if exists {
			continue
		}

		message := telegram.FormatListing(listing, i+1)
		if err := w.notifier.SendMessage(w.ctx, message); err != nil {
			w.log.Error().Err(err).Str("item_id", listing.ItemID).Msg("Notification failed")
			continue
		}
		if metrics.NotificationsSent != nil {
			metrics.NotificationsSent.Inc()
		}

		if err := w.store.Record(listing); err != nil {
			w.log.Error().Err(err).Str("item_id", listing.ItemID).Msg("Failed to record notified listing")
		}
	}
}
