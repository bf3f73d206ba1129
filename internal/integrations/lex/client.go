package lex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
)

const defaultLocaleID = "en_US"

// lexAPI is the minimal Lex V2 runtime interface required by Client.
type lexAPI interface {
	RecognizeText(ctx context.Context, in *lexruntimev2.RecognizeTextInput, optFns ...func(*lexruntimev2.Options)) (*lexruntimev2.RecognizeTextOutput, error)
}

// Bot identifies the Lex bot alias and locale to converse with.
type Bot struct {
	ID       string
	AliasID  string
	LocaleID string
}

// Client sends text turns to a Lex V2 bot.
type Client struct {
	api lexAPI
	bot Bot
}

func New(api lexAPI, bot Bot) (*Client, error) {
	if api == nil {
		return nil, errors.New("lex: api must not be nil")
	}
	bot.ID = strings.TrimSpace(bot.ID)
	bot.AliasID = strings.TrimSpace(bot.AliasID)
	if bot.ID == "" || bot.AliasID == "" {
		return nil, errors.New("lex: bot id and alias id are required")
	}
	if strings.TrimSpace(bot.LocaleID) == "" {
		bot.LocaleID = defaultLocaleID
	}
	return &Client{api: api, bot: bot}, nil
}

// Recognize sends text in the given session and returns the content of
// every message Lex produced, in order. Messages without content yield "".
func (c *Client) Recognize(ctx context.Context, sessionID, text string) ([]string, error) {
	out, err := c.api.RecognizeText(ctx, &lexruntimev2.RecognizeTextInput{
		BotId:      aws.String(c.bot.ID),
		BotAliasId: aws.String(c.bot.AliasID),
		LocaleId:   aws.String(c.bot.LocaleID),
		SessionId:  aws.String(sessionID),
		Text:       aws.String(text),
	})
	if err != nil {
		return nil, fmt.Errorf("lex: recognize text: %w", err)
	}
	if out == nil {
		return nil, nil
	}

	fragments := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		fragments = append(fragments, aws.ToString(m.Content))
	}
	return fragments, nil
}
