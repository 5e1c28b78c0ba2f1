package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermingonzalezs/scrapper-bot/internal/filter"
	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/services/store"
)

// MockSearcher implements the Searcher interface for testing
type MockSearcher struct {
	listings []scraper.Listing
	details  map[string]*scraper.Details
	err      error
}

var _ Searcher = (*MockSearcher)(nil)

func (m *MockSearcher) Search(query string) ([]scraper.Listing, error) {
	return m.listings, m.err
}

func (m *MockSearcher) FetchDetails(url string) (*scraper.Details, error) {
	if details, ok := m.details[url]; ok {
		return details, nil
	}
	return nil, errors.New("detail page unavailable")
}

// MockStore implements the store.Store interface for testing
type MockStore struct {
	recorded  map[string]scraper.Listing
	existsErr error
}

var _ store.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{recorded: make(map[string]scraper.Listing)}
}

func (m *MockStore) Exists(itemID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.recorded[itemID]
	return ok, nil
}

func (m *MockStore) Record(listing scraper.Listing) error {
	m.recorded[listing.ItemID] = listing
	return nil
}

func (m *MockStore) Close() error { return nil }

// MockNotifier implements the Notifier interface for testing
type MockNotifier struct {
	messages []string
	err      error
}

var _ Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendMessage(ctx context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, text)
	return nil
}

func testPolicy() filter.Policy {
	return filter.Policy{
		MinPrice:              100,
		MaxPrice:              1500,
		PremiumBrands:         []string{"MacBook", "ThinkPad"},
		MaxTimeRemainingHours: 48,
		MinBids:               3,
		MinDiscountPercent:    10,
		AltValueBrands:        []string{"MacBook", "ThinkPad"},
	}
}

func interestingListing(id string) scraper.Listing {
	return scraper.Listing{
		ItemID:             id,
		Title:              "Apple MacBook Pro 13",
		URL:                "https://www.ebay.com/itm/" + id,
		CurrentPrice:       450,
		BidCount:           8,
		TimeRemaining:      "2h left",
		TimeRemainingHours: 2,
		Brand:              "MacBook",
		ScrapedAt:          time.Now(),
	}
}

func newTestWorker(searcher Searcher, st store.Store, notifier Notifier, cfg Config) *Worker {
	return NewWorker(context.Background(), searcher, filter.New(testPolicy()), st, notifier, cfg)
}

func TestWorkerNotifiesNewFindings(t *testing.T) {
	searcher := &MockSearcher{listings: []scraper.Listing{
		interestingListing("100000000001"),
		{ItemID: "100000000002", Title: "Generic laptop", CurrentPrice: 2000, BidCount: 0, TimeRemainingHours: 100},
	}}
	st := NewMockStore()
	notifier := &MockNotifier{}

	w := newTestWorker(searcher, st, notifier, Config{Query: "laptop", Interval: time.Minute})
	w.RunOnce()

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Apple MacBook Pro 13")

	_, recorded := st.recorded["100000000001"]
	assert.True(t, recorded)
}

func TestWorkerSkipsAlreadyNotified(t *testing.T) {
	listing := interestingListing("100000000001")

	st := NewMockStore()
	require.NoError(t, st.Record(listing))

	notifier := &MockNotifier{}
	w := newTestWorker(&MockSearcher{listings: []scraper.Listing{listing}}, st, notifier, Config{Query: "laptop", Interval: time.Minute})
	w.RunOnce()

	assert.Empty(t, notifier.messages)
}

func TestWorkerAssumesNotifiedOnStoreError(t *testing.T) {
	st := NewMockStore()
	st.existsErr = errors.New("redis down")

	notifier := &MockNotifier{}
	w := newTestWorker(&MockSearcher{listings: []scraper.Listing{interestingListing("100000000001")}}, st, notifier, Config{Query: "laptop", Interval: time.Minute})
	w.RunOnce()

	assert.Empty(t, notifier.messages)
}

func TestWorkerSearchFailure(t *testing.T) {
	notifier := &MockNotifier{}
	w := newTestWorker(&MockSearcher{err: errors.New("rate limited")}, NewMockStore(), notifier, Config{Query: "laptop", Interval: time.Minute})
	w.RunOnce()

	assert.Empty(t, notifier.messages)
}

func TestWorkerNotificationFailureLeavesListingUnrecorded(t *testing.T) {
	st := NewMockStore()
	notifier := &MockNotifier{err: errors.New("telegram down")}

	w := newTestWorker(&MockSearcher{listings: []scraper.Listing{interestingListing("100000000001")}}, st, notifier, Config{Query: "laptop", Interval: time.Minute})
	w.RunOnce()

	// The listing stays unrecorded so the next pass retries the notification
	assert.Empty(t, st.recorded)
}

func TestWorkerEnrichesDetails(t *testing.T) {
	listing := interestingListing("100000000001")
	listing.CurrentPrice = 900
	listing.BidCount = 3 // alternative value path would reject at this price

	searcher := &MockSearcher{
		listings: []scraper.Listing{listing},
		details: map[string]*scraper.Details{
			listing.URL: {OriginalPrice: 1400, Condition: "Used"},
		},
	}
	st := NewMockStore()
	notifier := &MockNotifier{}

	w := newTestWorker(searcher, st, notifier, Config{
		Query:        "laptop",
		Interval:     time.Minute,
		FetchDetails: true,
		DetailLimit:  5,
	})
	w.RunOnce()

	// With the detail-page original price the discount path accepts it
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Discount")
}
