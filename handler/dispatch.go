package handler

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"

	"chat-relay/internal/logging"
	"chat-relay/internal/usecase"
)

type dispatchUseCase interface {
	ProcessBatch(ctx context.Context, items []usecase.DispatchItem) usecase.BatchReport
}

type DispatchHandler struct {
	svc dispatchUseCase
}

func NewDispatchHandler(svc dispatchUseCase) (*DispatchHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: dispatch use case must not be nil")
	}
	return &DispatchHandler{svc: svc}, nil
}

// Handle processes one queue batch. No item is ever reported as failed, so
// the whole batch is acknowledged.
func (h *DispatchHandler) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	logger := logging.WithInvocation(logging.FromContext(ctx), "dispatch", invocationID(ctx))
	ctx = logging.IntoContext(ctx, logger)

	items := make([]usecase.DispatchItem, 0, len(ev.Records))
	for _, rec := range ev.Records {
		items = append(items, usecase.DispatchItem{MessageID: rec.MessageId, Body: rec.Body})
	}

	report := h.svc.ProcessBatch(ctx, items)
	logger.Info("processed batch",
		"records", len(items),
		"logged", report.Logged(),
		"skipped", report.Skipped(),
	)
	return events.SQSEventResponse{}, nil
}
