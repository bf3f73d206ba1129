package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chat-relay/internal/domain"
	"chat-relay/internal/integrations/openai"
	"chat-relay/internal/logging"
)

const unknownIntentAnswer = "Sorry, I couldn't understand that."

// IntentRouter turns one recognized intent into the answer that closes the turn.
type IntentRouter struct {
	answers AnswerProvider
	model   string
	persona string
}

func NewIntentRouter(answers AnswerProvider, model, persona string) (*IntentRouter, error) {
	if answers == nil {
		return nil, errors.New("usecase: answer provider must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	persona = strings.TrimSpace(persona)
	if persona == "" {
		return nil, errors.New("usecase: persona must not be empty")
	}
	return &IntentRouter{answers: answers, model: model, persona: persona}, nil
}

// Route is total: every intent, known or not, yields a decision with an answer.
func (r *IntentRouter) Route(ctx context.Context, intentName, userInput string) domain.IntentDecision {
	logger := logging.FromContext(ctx).With("intent", intentName)
	d := domain.IntentDecision{IntentName: intentName, UserInput: userInput}

	switch intentName {
	case domain.IntentAskProfessor:
		d.Answer = r.askProfessor(ctx, userInput)
	case domain.IntentFallback:
		d.Answer = "You said: " + userInput
	default:
		logger.Warn("unknown intent")
		d.Answer = unknownIntentAnswer
	}
	logger.Info("routed intent", "answer_len", len(d.Answer))
	return d
}

// askProfessor sends a single turn, the persona followed by the raw input,
// with no conversation history.
func (r *IntentRouter) askProfessor(ctx context.Context, userInput string) string {
	answer, err := r.answers.Chat(ctx, r.model, []domain.ChatMessage{
		{Role: "system", Content: r.persona},
		{Role: "user", Content: userInput},
	})
	if err == nil {
		return answer
	}
	absorb(ctx, ErrorDownstream, "answer_provider_error", err)

	var apiErr *openai.APIError
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return "OpenAI API error: " + msg
	case errors.Is(err, openai.ErrUnexpectedResponse):
		return "Unexpected response format from OpenAI API."
	default:
		return fmt.Sprintf("Sorry, I could not get a response from ChatGPT. Error: %v", err)
	}
}
