package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"chat-relay/internal/domain"
	"chat-relay/internal/logging"
	"chat-relay/internal/usecase"
)

const (
	bodyMissing   = "No body received"
	bodyInvalid   = "Invalid JSON"
	bodyProcessed = "Processed"
)

type ingestUseCase interface {
	Ingest(ctx context.Context, in usecase.IngestInput) usecase.IngestResult
}

// IngestHandler receives Telegram webhook calls. It always answers 200 so
// the platform does not redeliver.
type IngestHandler struct {
	svc ingestUseCase
}

func NewIngestHandler(svc ingestUseCase) (*IngestHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: ingest use case must not be nil")
	}
	return &IngestHandler{svc: svc}, nil
}

func (h *IngestHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	logger := logging.WithInvocation(logging.FromContext(ctx), "ingest", corrID)
	ctx = logging.IntoContext(ctx, logger)

	if req.Body == "" {
		logger.Info("empty webhook body")
		return textResponse(corrID, bodyMissing), nil
	}

	in, err := decodeUpdate(req.Body, req.IsBase64Encoded)
	if err != nil {
		logger.Warn("invalid webhook body", "code", string(usecase.ErrorMalformedInput), "err", err)
		return textResponse(corrID, bodyInvalid), nil
	}

	res := h.svc.Ingest(ctx, in)
	logger.Info("processed update",
		slog.Int64("update_id", in.UpdateID),
		slog.String("user_id", res.UserID),
		slog.Bool("enqueued", res.Enqueued()),
	)
	return textResponse(corrID, bodyProcessed), nil
}

// webhookUpdate is the part of a Telegram update ingestion reads. Fields are
// kept raw so an unexpected type in one of them never rejects the update.
type webhookUpdate struct {
	UpdateID json.RawMessage `json:"update_id"`
	Message  json.RawMessage `json:"message"`
}

type webhookMessage struct {
	Chat json.RawMessage `json:"chat"`
	Text json.RawMessage `json:"text"`
}

type webhookChat struct {
	ID domain.ChatID `json:"id"`
}

// decodeUpdate reads the chat id and text of a Telegram update. Only a body
// that is not a JSON object is an error; anything missing or oddly typed
// inside it maps to a null chat, empty text or a zero update id.
func decodeUpdate(body string, isBase64 bool) (usecase.IngestInput, error) {
	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return usecase.IngestInput{}, err
		}
		raw = decoded
	}
	raw = bytes.TrimSpace(raw)
	if !isObject(raw) {
		return usecase.IngestInput{}, errors.New("handler: body is not a JSON object")
	}

	var update webhookUpdate
	if err := json.Unmarshal(raw, &update); err != nil {
		return usecase.IngestInput{}, err
	}

	in := usecase.IngestInput{ChatID: domain.NullChatID()}
	if id, err := strconv.ParseInt(string(update.UpdateID), 10, 64); err == nil {
		in.UpdateID = id
	}

	var msg webhookMessage
	if !isObject(update.Message) || json.Unmarshal(update.Message, &msg) != nil {
		return in, nil
	}
	in.Text = textValue(msg.Text)

	var chat webhookChat
	if isObject(msg.Chat) && json.Unmarshal(msg.Chat, &chat) == nil {
		in.ChatID = chat.ID
	}
	return in, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// textValue returns a JSON string as is, null or absent as "", and any other
// value as its compact JSON text.
func textValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

func textResponse(corrID, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":    "text/plain; charset=utf-8",
			correlationHeader: corrID,
		},
		Body: body,
	}
}
