package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	// MaxMessageRunes is the Telegram limit for one sendMessage text.
	MaxMessageRunes = 4096

	defaultRatePerSecond = 30
)

// Client sends plain-text messages through the Telegram Bot API.
type Client struct {
	bot      *tgbotapi.BotAPI
	limiter  *rate.Limiter
	maxRunes int
}

type Option func(*Client)

// WithAPIEndpoint overrides the Bot API endpoint format (token, method).
func WithAPIEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.bot.SetAPIEndpoint(endpoint)
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.bot.Client = httpClient
		}
	}
}

// WithRateLimit paces outbound sends to perSecond messages per second.
// A non-positive value disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func withMaxRunes(n int) Option {
	return func(c *Client) {
		c.maxRunes = n
	}
}

// New creates a Client for the bot token. Unlike tgbotapi.NewBotAPI it does
// not call getMe, so construction never touches the network.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram: bot token must not be empty")
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)

	c := &Client{
		bot:      bot,
		limiter:  rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
		maxRunes: MaxMessageRunes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Notify delivers text to chatID. Numeric ids address chats directly; any
// other id is treated as a channel username. Texts longer than the Telegram
// limit are sent as consecutive chunks and the first failure stops the rest;
// if earlier chunks went out, the error is a *PartialDeliveryError.
func (c *Client) Notify(ctx context.Context, chatID, text string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return errors.New("telegram: chat id is required")
	}
	var delivered strings.Builder
	for i, chunk := range splitText(text, c.maxRunes) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return partial(delivered.String(), fmt.Errorf("telegram: wait for send slot: %w", err))
			}
		}
		if _, err := c.bot.Request(newMessage(chatID, chunk)); err != nil {
			return partial(delivered.String(), fmt.Errorf("telegram: send message chunk %d: %w", i, err))
		}
		delivered.WriteString(chunk)
	}
	return nil
}

// PartialDeliveryError reports a send that failed after some chunks of the
// text were already delivered.
type PartialDeliveryError struct {
	Delivered string
	Err       error
}

func (e *PartialDeliveryError) Error() string {
	return fmt.Sprintf("%v (%d runes delivered)", e.Err, len([]rune(e.Delivered)))
}

func (e *PartialDeliveryError) Unwrap() error {
	return e.Err
}

// DeliveredText is the prefix of the text that reached the chat.
func (e *PartialDeliveryError) DeliveredText() string {
	return e.Delivered
}

func partial(delivered string, err error) error {
	if delivered == "" {
		return err
	}
	return &PartialDeliveryError{Delivered: delivered, Err: err}
}

func newMessage(chatID, text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(chatID, text)
}

// splitText cuts text into pieces of at most limit runes, preferring to
// break after a newline in the second half of a piece.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i >= limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
