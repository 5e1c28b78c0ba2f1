package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/logger"
)

// maxSearchResults bounds how many listings a /search reply contains
const maxSearchResults = 10

const welcomeMessage = "🤖 *Hi! I am your eBay auction bot*\n\n" +
	"Available commands:\n" +
	"• /search <term> - search live auctions\n" +
	"• /help - show this help\n\n" +
	"Start with /search to find deals!"

const helpMessage = "🔍 *How to use the bot:*\n\n" +
	"1. Send /search followed by what you want (e.g. 'macbook pro')\n" +
	"2. I reply with the 10 auctions ending soonest\n\n" +
	"*Search examples:*\n" +
	"• /search macbook\n" +
	"• /search thinkpad t480\n" +
	"• /search gaming laptop\n\n" +
	"💡 *Tip:* be specific for better results"

// Searcher runs a search query through the extraction pipeline
type Searcher interface {
	Search(query string) ([]scraper.Listing, error)
}

// Bot serves interactive search commands over Telegram long polling
type Bot struct {
	client   *Client
	searcher Searcher
	log      *logger.Logger
}

// NewBot creates a new command bot
func NewBot(client *Client, searcher Searcher) *Bot {
	return &Bot{
		client:   client,
		searcher: searcher,
		log:      logger.ForBot(),
	}
}

// Run polls for updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Msg("Bot started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Error().Err(err).Msg("Failed to poll updates")
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		b.reply(ctx, msg.Chat.ID, welcomeMessage)
	case text == "/help":
		b.reply(ctx, msg.Chat.ID, helpMessage)
	case strings.HasPrefix(text, "/search"):
		query := strings.TrimSpace(strings.TrimPrefix(text, "/search"))
		b.handleSearch(ctx, msg.Chat.ID, query)
	}
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, query string) {
	if query == "" {
		b.reply(ctx, chatID, "🔍 *What do you want to search on eBay?*\n\nSend /search followed by a term, e.g. /search macbook pro")
		return
	}

	b.log.Info().Str("query", query).Int64("chat_id", chatID).Msg("Handling search command")
	b.reply(ctx, chatID, fmt.Sprintf("🔍 Searching '%s' on eBay...\n⏳ This can take a few seconds...", query))

	listings, err := b.searcher.Search(query)
	if err != nil {
		b.log.Error().Err(err).Str("query", query).Msg("Search failed")
		b.reply(ctx, chatID, fmt.Sprintf("❌ Error searching '%s'\n\neBay may be blocking requests. Try again in a few minutes.", query))
		return
	}

	if len(listings) == 0 {
		b.reply(ctx, chatID, fmt.Sprintf("😔 No live auctions found for '%s'\n\n💡 *Try:*\n• broader terms\n• fewer words\n• different brands", query))
		return
	}

	// Soonest-ending auctions first
	sorted := make([]scraper.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeRemainingHours < sorted[j].TimeRemainingHours
	})

	top := sorted
	if len(top) > maxSearchResults {
		top = top[:maxSearchResults]
	}

	b.reply(ctx, chatID, fmt.Sprintf("✅ Found %d auctions for '%s'", len(listings), query))
	for i, listing := range top {
		b.reply(ctx, chatID, FormatListing(listing, i+1))
	}
	b.reply(ctx, chatID, fmt.Sprintf("🎯 *Showing the %d auctions ending soonest*\n\nSend /search to run another search", len(top)))
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendTo(ctx, chatID, text); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}
