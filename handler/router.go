package handler

import (
	"context"
	"errors"

	"chat-relay/internal/domain"
	"chat-relay/internal/logging"
)

type routerUseCase interface {
	Route(ctx context.Context, intentName, userInput string) domain.IntentDecision
}

type RouterHandler struct {
	router routerUseCase
}

func NewRouterHandler(router routerUseCase) (*RouterHandler, error) {
	if router == nil {
		return nil, errors.New("handler: intent router must not be nil")
	}
	return &RouterHandler{router: router}, nil
}

// Handle answers a Lex fulfillment call by closing the turn.
func (h *RouterHandler) Handle(ctx context.Context, ev domain.LexEvent) (domain.LexResponse, error) {
	logger := logging.WithInvocation(logging.FromContext(ctx), "router", invocationID(ctx)).
		With("session_id", ev.SessionID)
	ctx = logging.IntoContext(ctx, logger)

	d := h.router.Route(ctx, ev.IntentName(), ev.InputTranscript)
	return domain.NewCloseResponse(d), nil
}
