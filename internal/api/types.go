package api

import "strings"

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message types. Plain exchange messages carry no type.
const (
	TypeGreeting = "greeting"
	TypeError    = "error"
)

// Message is a single chat message, either constructed locally (user
// messages, greetings, error placeholders) or decoded from the server.
// Messages are immutable once appended to a conversation.
type Message struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Sender    string   `json:"sender"`
	Type      string   `json:"type,omitempty"`
	Citations []string `json:"citations,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// HistoryEntry is a sidebar summary record for a past conversation.
// The title is the first user query truncated to 30 characters.
type HistoryEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// ChatReply is the response envelope of the send-message endpoints.
type ChatReply struct {
	ConversationID string   `json:"conversation_id"`
	Response       Envelope `json:"response"`
}

// Envelope wraps the upstream completion payload.
type Envelope struct {
	Type      string       `json:"type"`
	Data      EnvelopeData `json:"data"`
	Citations []string     `json:"citations,omitempty"`
}

// EnvelopeData carries the completion choices.
type EnvelopeData struct {
	Choices []EnvelopeChoice `json:"choices"`
}

// EnvelopeChoice is one completion alternative.
type EnvelopeChoice struct {
	Message EnvelopeMessage `json:"message"`
}

// EnvelopeMessage is the completion text itself.
type EnvelopeMessage struct {
	Content string `json:"content"`
}

// Content extracts the assistant text from the nested envelope. The ok
// result is false when any nesting level is missing or the content is
// blank; callers substitute their own fallback string rather than
// surfacing a decoding error to the user.
func (r *ChatReply) Content() (string, bool) {
	if r == nil {
		return "", false
	}
	choices := r.Response.Data.Choices
	if len(choices) == 0 {
		return "", false
	}
	content := strings.TrimSpace(choices[0].Message.Content)
	if content == "" {
		return "", false
	}
	return content, true
}
