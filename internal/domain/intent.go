package domain

const (
	IntentAskProfessor = "AskProfessor"
	IntentFallback     = "FallbackIntent"

	dialogActionClose    = "Close"
	intentStateFulfilled = "Fulfilled"
	contentTypePlainText = "PlainText"
)

// IntentDecision is the outcome of routing one recognized intent.
type IntentDecision struct {
	IntentName string
	UserInput  string
	Answer     string
}

// LexEvent is the subset of a Lex V2 code hook event the router reads.
type LexEvent struct {
	SessionID        string          `json:"sessionId"`
	InputTranscript  string          `json:"inputTranscript"`
	InvocationSource string          `json:"invocationSource,omitempty"`
	Bot              *LexBot         `json:"bot,omitempty"`
	SessionState     LexSessionState `json:"sessionState"`
}

type LexBot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AliasID  string `json:"aliasId"`
	LocaleID string `json:"localeId"`
}

type LexSessionState struct {
	DialogAction      *LexDialogAction  `json:"dialogAction,omitempty"`
	Intent            *LexIntent        `json:"intent,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

type LexDialogAction struct {
	Type string `json:"type"`
}

type LexIntent struct {
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

type LexMessage struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// LexResponse is the code hook reply returned to Lex.
type LexResponse struct {
	SessionState LexSessionState `json:"sessionState"`
	Messages     []LexMessage    `json:"messages"`
}

// IntentName returns the recognized intent, or "" when the event has none.
func (e LexEvent) IntentName() string {
	if e.SessionState.Intent == nil {
		return ""
	}
	return e.SessionState.Intent.Name
}

// NewCloseResponse closes the dialogue turn as fulfilled with a single
// plain-text message.
func NewCloseResponse(d IntentDecision) LexResponse {
	return LexResponse{
		SessionState: LexSessionState{
			DialogAction: &LexDialogAction{Type: dialogActionClose},
			Intent:       &LexIntent{Name: d.IntentName, State: intentStateFulfilled},
		},
		Messages: []LexMessage{
			{ContentType: contentTypePlainText, Content: d.Answer},
		},
	}
}
