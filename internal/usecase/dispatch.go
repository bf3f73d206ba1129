package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"chat-relay/internal/domain"
	"chat-relay/internal/logging"
)

// DispatchItem is one message delivered by the queue.
type DispatchItem struct {
	MessageID string
	Body      string
}

// ItemResult records what happened to one DispatchItem.
type ItemResult struct {
	MessageID string
	UserID    string
	Skipped   bool
	Reply     string

	ParseErr  *Error
	NluErr    *Error
	NotifyErr *Error
	LogErr    *Error
}

type BatchReport struct {
	Items []ItemResult
}

// Logged counts items whose session log record was written.
func (b BatchReport) Logged() int {
	n := 0
	for _, it := range b.Items {
		if !it.Skipped && it.LogErr == nil {
			n++
		}
	}
	return n
}

func (b BatchReport) Skipped() int {
	n := 0
	for _, it := range b.Items {
		if it.Skipped {
			n++
		}
	}
	return n
}

type DispatchService struct {
	nlu      NluEngine
	notifier Notifier
	logs     LogStore
	logTTL   time.Duration
	now      func() time.Time
}

// NewDispatchService creates a DispatchService. A non-positive logTTL uses
// domain.DefaultLogTTL.
func NewDispatchService(nlu NluEngine, notifier Notifier, logs LogStore, logTTL time.Duration) (*DispatchService, error) {
	if nlu == nil {
		return nil, errors.New("usecase: nlu engine must not be nil")
	}
	if notifier == nil {
		return nil, errors.New("usecase: notifier must not be nil")
	}
	if logs == nil {
		return nil, errors.New("usecase: log store must not be nil")
	}
	if logTTL <= 0 {
		logTTL = domain.DefaultLogTTL
	}
	return &DispatchService{nlu: nlu, notifier: notifier, logs: logs, logTTL: logTTL, now: time.Now}, nil
}

// ProcessBatch handles items one after another. A failure in one item never
// stops the others and nothing is retried here.
func (s *DispatchService) ProcessBatch(ctx context.Context, items []DispatchItem) BatchReport {
	report := BatchReport{Items: make([]ItemResult, 0, len(items))}
	for _, item := range items {
		report.Items = append(report.Items, s.process(ctx, item))
	}
	return report
}

func (s *DispatchService) process(ctx context.Context, item DispatchItem) ItemResult {
	res := ItemResult{MessageID: item.MessageID}
	ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("message_id", item.MessageID))

	msg, err := decodeQueuedMessage(item.Body)
	if err != nil {
		res.Skipped = true
		res.ParseErr = absorb(ctx, ErrorMalformedInput, "invalid_queue_body", err)
		return res
	}

	res.UserID = msg.ChatID.Key()
	ctx = logging.IntoContext(ctx, logging.WithChat(logging.FromContext(ctx), res.UserID))

	fragments, err := s.nlu.Recognize(ctx, res.UserID, msg.Text)
	res.NluErr = absorb(ctx, ErrorDownstream, "nlu_error", err)
	if res.NluErr == nil {
		res.Reply = strings.Join(fragments, " ")
	}

	if res.Reply != "" {
		err = s.notifier.Notify(ctx, res.UserID, res.Reply)
		if res.NotifyErr = absorb(ctx, ErrorDownstream, "notify_error", err); res.NotifyErr != nil {
			// only the part that reached the chat is logged
			res.Reply = deliveredText(err)
		} else {
			logging.FromContext(ctx).Info("sent reply")
		}
	}

	rec := domain.NewSessionLogRecord(res.UserID, msg.Text, res.Reply, s.now(), s.logTTL)
	rec.MessageID = item.MessageID
	res.LogErr = absorb(ctx, ErrorStateStore, "session_log_write_error", s.logs.PutSessionLog(ctx, rec))
	return res
}

func deliveredText(err error) string {
	var pd partialDelivery
	if errors.As(err, &pd) {
		return pd.DeliveredText()
	}
	return ""
}

func decodeQueuedMessage(body string) (domain.QueuedMessage, error) {
	raw := bytes.TrimSpace([]byte(body))
	if len(raw) == 0 || raw[0] != '{' {
		return domain.QueuedMessage{}, errors.New("usecase: queue body is not a JSON object")
	}
	var msg domain.QueuedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return domain.QueuedMessage{}, err
	}
	return msg, nil
}
