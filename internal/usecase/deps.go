package usecase

import (
	"context"
	"time"

	"chat-relay/internal/domain"
)

type UserDirectory interface {
	Touch(ctx context.Context, userID string, now time.Time) (created bool, err error)
}

type Queue interface {
	Enqueue(ctx context.Context, msg domain.QueuedMessage) (messageID string, err error)
}

type LogStore interface {
	PutSessionLog(ctx context.Context, rec domain.SessionLogRecord) error
}

type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
}

type NluEngine interface {
	Recognize(ctx context.Context, sessionID, text string) ([]string, error)
}

type AnswerProvider interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

// partialDelivery is implemented by Notifier errors raised after part of the
// text was already delivered.
type partialDelivery interface {
	error
	DeliveredText() string
}
