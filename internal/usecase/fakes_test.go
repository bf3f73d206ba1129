package usecase

import (
	"context"
	"time"

	"chat-relay/internal/domain"
)

type fakeDirectory struct {
	records map[string]string
	err     error
	calls   int
}

func (f *fakeDirectory) Touch(_ context.Context, userID string, now time.Time) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.records == nil {
		f.records = map[string]string{}
	}
	_, existed := f.records[userID]
	f.records[userID] = domain.FormatLastSeen(now)
	return !existed, nil
}

type fakeQueue struct {
	sent []domain.QueuedMessage
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, msg domain.QueuedMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

type notification struct {
	chatID string
	text   string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, chatID, text string) error {
	f.sent = append(f.sent, notification{chatID: chatID, text: text})
	return f.err
}

type nluCall struct {
	sessionID string
	text      string
}

type fakeNLU struct {
	replies map[string][]string
	err     error
	errFor  map[string]error
	calls   []nluCall
}

func (f *fakeNLU) Recognize(_ context.Context, sessionID, text string) ([]string, error) {
	f.calls = append(f.calls, nluCall{sessionID: sessionID, text: text})
	if err, ok := f.errFor[text]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.replies[text], nil
}

type fakeLogStore struct {
	records []domain.SessionLogRecord
	err     error
}

func (f *fakeLogStore) PutSessionLog(_ context.Context, rec domain.SessionLogRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeAnswers struct {
	answer   string
	err      error
	model    string
	messages []domain.ChatMessage
	calls    int
}

func (f *fakeAnswers) Chat(_ context.Context, model string, messages []domain.ChatMessage) (string, error) {
	f.calls++
	f.model = model
	f.messages = messages
	return f.answer, f.err
}
