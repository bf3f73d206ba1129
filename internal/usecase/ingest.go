package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/domain"
	"chat-relay/internal/logging"
)

// EnqueueFailureApology is sent to the chat when its message cannot be queued.
const EnqueueFailureApology = "⚠️ Your message could not be processed. Please try again later."

type IngestInput struct {
	ChatID domain.ChatID
	Text   string
	// UpdateID is the platform update id, 0 when unknown.
	UpdateID int64
}

// IngestResult records the outcome of every ingestion step.
type IngestResult struct {
	UserID       string
	UserCreated  bool
	MessageID    string
	DirectoryErr *Error
	EnqueueErr   *Error
	NotifyErr    *Error
}

func (r IngestResult) Enqueued() bool {
	return r.EnqueueErr == nil
}

type IngestService struct {
	users    UserDirectory
	queue    Queue
	notifier Notifier
	now      func() time.Time
}

func NewIngestService(users UserDirectory, queue Queue, notifier Notifier) (*IngestService, error) {
	if users == nil {
		return nil, errors.New("usecase: user directory must not be nil")
	}
	if queue == nil {
		return nil, errors.New("usecase: queue must not be nil")
	}
	if notifier == nil {
		return nil, errors.New("usecase: notifier must not be nil")
	}
	return &IngestService{users: users, queue: queue, notifier: notifier, now: time.Now}, nil
}

// Ingest upserts the sender in the directory and hands the message to the
// queue. Failures are absorbed: a directory failure never blocks the
// enqueue, and an enqueue failure is answered with an apology.
func (s *IngestService) Ingest(ctx context.Context, in IngestInput) IngestResult {
	userID := in.ChatID.Key()
	ctx = logging.IntoContext(ctx, logging.WithChat(logging.FromContext(ctx), userID))
	logger := logging.FromContext(ctx)

	res := IngestResult{UserID: userID}

	created, err := s.users.Touch(ctx, userID, s.now())
	if res.DirectoryErr = absorb(ctx, ErrorStateStore, "directory_upsert_error", err); res.DirectoryErr == nil {
		res.UserCreated = created
		logger.Info("touched user", "created", created)
	}

	res.MessageID, err = s.queue.Enqueue(ctx, domain.QueuedMessage{
		ChatID:  in.ChatID,
		Text:    in.Text,
		GroupID: userID,
		DedupID: dedupID(in.UpdateID),
	})
	if res.EnqueueErr = absorb(ctx, ErrorDownstream, "enqueue_error", err); res.EnqueueErr == nil {
		logger.Info("enqueued message", "message_id", res.MessageID)
		return res
	}

	err = s.notifier.Notify(ctx, userID, EnqueueFailureApology)
	res.NotifyErr = absorb(ctx, ErrorDownstream, "apology_notify_error", err)
	return res
}

func dedupID(updateID int64) string {
	if updateID != 0 {
		return "update-" + strconv.FormatInt(updateID, 10)
	}
	return newUUID()
}

var newUUID = func() string {
	return uuid.NewString()
}
