package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
)

type mockSearcher struct {
	query    string
	listings []scraper.Listing
	err      error
}

func (m *mockSearcher) Search(query string) ([]scraper.Listing, error) {
	m.query = query
	return m.listings, m.err
}

// captureServer records every text sent through the Bot API
func captureServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var sent []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		sent = append(sent, r.FormValue("text"))
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))

	return server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), sent...)
	}
}

func newTestBot(server *httptest.Server, searcher Searcher) *Bot {
	client := NewClient("test-token", "12345")
	client.apiBase = server.URL
	return NewBot(client, searcher)
}

func TestBotHandlesSearchCommand(t *testing.T) {
	server, sentMessages := captureServer(t)
	defer server.Close()

	searcher := &mockSearcher{listings: []scraper.Listing{
		{ItemID: "100000000001", Title: "Apple MacBook Air", CurrentPrice: 500, TimeRemaining: "5h left", TimeRemainingHours: 5},
		{ItemID: "100000000002", Title: "Lenovo ThinkPad", CurrentPrice: 300, TimeRemaining: "1h left", TimeRemainingHours: 1},
	}}

	bot := newTestBot(server, searcher)
	bot.handleMessage(context.Background(), &Message{Text: "/search macbook", Chat: Chat{ID: 42}})

	assert.Equal(t, "macbook", searcher.query)

	sent := sentMessages()
	// searching notice, found notice, two listings, footer
	require.Len(t, sent, 5)
	assert.Contains(t, sent[1], "Found 2 auctions")
	// Soonest ending first
	assert.Contains(t, sent[2], "Lenovo ThinkPad")
	assert.Contains(t, sent[3], "Apple MacBook Air")
}

func TestBotHandlesEmptyResult(t *testing.T) {
	server, sentMessages := captureServer(t)
	defer server.Close()

	bot := newTestBot(server, &mockSearcher{})
	bot.handleMessage(context.Background(), &Message{Text: "/search rare laptop", Chat: Chat{ID: 42}})

	sent := sentMessages()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1], "No live auctions found")
}

func TestBotHandlesStartAndHelp(t *testing.T) {
	server, sentMessages := captureServer(t)
	defer server.Close()

	bot := newTestBot(server, &mockSearcher{})
	bot.handleMessage(context.Background(), &Message{Text: "/start", Chat: Chat{ID: 42}})
	bot.handleMessage(context.Background(), &Message{Text: "/help", Chat: Chat{ID: 42}})
	bot.handleMessage(context.Background(), &Message{Text: "just chatting", Chat: Chat{ID: 42}})

	sent := sentMessages()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0], "eBay auction bot")
	assert.Contains(t, sent[1], "How to use the bot")
}

func TestBotSearchWithoutQuery(t *testing.T) {
	server, sentMessages := captureServer(t)
	defer server.Close()

	searcher := &mockSearcher{}
	bot := newTestBot(server, searcher)
	bot.handleMessage(context.Background(), &Message{Text: "/search", Chat: Chat{ID: 42}})

	sent := sentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "What do you want to search")
	assert.Empty(t, searcher.query)
}
