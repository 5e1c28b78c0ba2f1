package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fermingonzalezs/scrapper-bot/pkg/errors"
)

const defaultAPIBase = "https://api.telegram.org"

// longPollTimeout is the getUpdates server-side timeout in seconds
const longPollTimeout = 30

// Update is one incoming event from the Bot API
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an incoming chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies the conversation a message belongs to
type Chat struct {
	ID int64 `json:"id"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

// Client talks to the Telegram Bot API over plain HTTP
type Client struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewClient registers the bot token and the default chat identifier
func NewClient(token, chatID string) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		// Timeout must outlast the getUpdates long poll
		client: &http.Client{Timeout: (longPollTimeout + 10) * time.Second},
	}
}

// SendMessage posts a Markdown message to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	return c.send(ctx, c.chatID, text)
}

// SendTo posts a Markdown message to a specific chat
func (c *Client) SendTo(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, strconv.FormatInt(chatID, 10), text)
}

func (c *Client) send(ctx context.Context, chatID, text string) error {
	if c.token == "" || chatID == "" {
		return errors.NewValidation("telegram", "bot token or chat id missing")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.NewNotify("telegram", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewNotify("telegram", "failed to send message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNotify("telegram", fmt.Sprintf("telegram error: %s", resp.Status), nil)
	}
	return nil
}

// GetUpdates long-polls the Bot API for incoming messages starting at offset
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", c.apiBase, c.token)
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(longPollTimeout))
	params.Set("allowed_updates", `["message"]`)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewNotify("telegram", "failed to build request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewNotify("telegram", "failed to poll updates", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNotify("telegram", fmt.Sprintf("telegram error: %s", resp.Status), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNotify("telegram", "failed to read updates", err)
	}

	var parsed updatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewNotify("telegram", "failed to decode updates", err)
	}
	if !parsed.OK {
		return nil, errors.NewNotify("telegram", "telegram returned not ok", nil)
	}
	return parsed.Result, nil
}
