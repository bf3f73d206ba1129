package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/internal/domain"
	"chat-relay/internal/integrations/openai"
)

const testPersona = "You are Dumbledore in Harry Potter. Answer like him"

func newTestRouter(t *testing.T, answers AnswerProvider) *IntentRouter {
	t.Helper()
	r, err := NewIntentRouter(answers, "gpt-4o-mini", testPersona)
	require.NoError(t, err)
	return r
}

func TestNewIntentRouter_Validates(t *testing.T) {
	_, err := NewIntentRouter(nil, "gpt-4o-mini", testPersona)
	require.Error(t, err)
	_, err = NewIntentRouter(&fakeAnswers{}, " ", testPersona)
	require.Error(t, err)
	_, err = NewIntentRouter(&fakeAnswers{}, "gpt-4o-mini", "")
	require.Error(t, err)
}

func TestRoute_AskProfessorReturnsProviderText(t *testing.T) {
	answers := &fakeAnswers{answer: "X"}
	r := newTestRouter(t, answers)

	d := r.Route(context.Background(), domain.IntentAskProfessor, "What is magic?")
	require.Equal(t, "X", d.Answer)
	require.Equal(t, domain.IntentAskProfessor, d.IntentName)
	require.Equal(t, "What is magic?", d.UserInput)
	require.Equal(t, "gpt-4o-mini", answers.model)
	require.Equal(t, []domain.ChatMessage{
		{Role: "system", Content: testPersona},
		{Role: "user", Content: "What is magic?"},
	}, answers.messages)
}

func TestRoute_AskProfessorFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "provider error",
			err:  &openai.APIError{StatusCode: 401, Message: "Incorrect API key provided"},
			want: "OpenAI API error: Incorrect API key provided",
		},
		{
			name: "provider error without message",
			err:  &openai.APIError{StatusCode: 500},
			want: "OpenAI API error: Unknown error",
		},
		{
			name: "unexpected format",
			err:  openai.ErrUnexpectedResponse,
			want: "Unexpected response format from OpenAI API.",
		},
		{
			name: "transport",
			err:  errors.New("dial tcp: connection refused"),
			want: "Sorry, I could not get a response from ChatGPT. Error: dial tcp: connection refused",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeAnswers{err: tc.err})
			d := r.Route(context.Background(), domain.IntentAskProfessor, "hi")
			require.Equal(t, tc.want, d.Answer)
		})
	}
}

func TestRoute_FallbackEchoes(t *testing.T) {
	answers := &fakeAnswers{}
	r := newTestRouter(t, answers)

	d := r.Route(context.Background(), domain.IntentFallback, "xyz")
	require.Equal(t, "You said: xyz", d.Answer)
	require.Zero(t, answers.calls)
}

func TestRoute_IsTotal(t *testing.T) {
	r := newTestRouter(t, &fakeAnswers{err: errors.New("boom")})
	for _, intent := range []string{"", "Greeting", domain.IntentAskProfessor, domain.IntentFallback, "askprofessor"} {
		for _, input := range []string{"", "hello", "日本語"} {
			d := r.Route(context.Background(), intent, input)
			require.NotEmpty(t, d.Answer, "intent=%q input=%q", intent, input)
			require.Equal(t, intent, d.IntentName)
		}
	}

	d := r.Route(context.Background(), "Greeting", "hi")
	require.Equal(t, "Sorry, I couldn't understand that.", d.Answer)
}
