// Package conversation implements the lifecycle of one chat thread
// against a remote completion endpoint: optimistic user-message append,
// serialized sends guarded by an in-flight flag, conversation identity
// adopted from the first successful exchange, and failures normalized to
// an in-thread error message.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"finsight/internal/api"
	"finsight/internal/logging"

	"go.uber.org/zap"
)

// ErrorText is the user-facing text appended when a send fails for any
// reason. The underlying cause goes to the log only; the user never sees
// a raw error, and no distinction is drawn between transport, server and
// decoding failures.
const ErrorText = "Sorry, I encountered an error while processing your request. Please try again."

// FallbackText replaces assistant content the envelope did not actually
// contain.
const FallbackText = "I received a response I couldn't read. Please try again."

// Precondition failures. Neither appends a message nor issues a request.
var (
	ErrEmptyInput = errors.New("conversation: empty input")
	ErrBusy       = errors.New("conversation: send already in flight")
)

// Sender issues one query against the completion endpoint.
type Sender interface {
	Send(ctx context.Context, query, conversationID string) (*api.ChatReply, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, query, conversationID string) (*api.ChatReply, error)

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, query, conversationID string) (*api.ChatReply, error) {
	return f(ctx, query, conversationID)
}

// HistorySource lists past conversations and loads their messages.
type HistorySource interface {
	History(ctx context.Context) ([]api.HistoryEntry, error)
	Conversation(ctx context.Context, id string) ([]api.Message, error)
}

// Manager owns the state of a single chat surface. All methods are safe
// for concurrent use; sends are serialized by rejection, never queued.
type Manager struct {
	mu sync.Mutex

	sender  Sender
	history HistorySource
	logger  *zap.Logger

	greeting string
	kind     string // history entry type, e.g. "chat" or "newbie"

	messages       []api.Message
	conversationID string
	sending        bool
	entries        []api.HistoryEntry
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistory attaches a history source for the sidebar.
func WithHistory(h HistorySource) Option {
	return func(m *Manager) { m.history = h }
}

// WithKind sets the type recorded on synthesized history entries.
func WithKind(kind string) Option {
	return func(m *Manager) { m.kind = kind }
}

// New creates a manager seeded with a greeting message. The message list
// always holds the greeting before any user interaction.
func New(sender Sender, greeting string, opts ...Option) *Manager {
	m := &Manager{
		sender:   sender,
		logger:   logging.Get(logging.CategoryChat),
		greeting: greeting,
		kind:     "chat",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.messages = []api.Message{{
		ID:     "msg-initial-1",
		Text:   m.greeting,
		Sender: api.SenderBot,
		Type:   api.TypeGreeting,
	}}
	m.conversationID = ""
	m.sending = false
}

func newMessageID() string {
	return fmt.Sprintf("msg-%d", time.Now().UnixNano())
}

// Messages returns a snapshot of the message list.
func (m *Manager) Messages() []api.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// ConversationID returns the adopted conversation id, or "" before the
// first successful exchange.
func (m *Manager) ConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversationID
}

// Sending reports whether a send is in flight.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending
}

// HistoryEntries returns a snapshot of the sidebar summaries.
func (m *Manager) HistoryEntries() []api.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Send dispatches one user query. The trimmed user message is appended
// synchronously before any network activity. Delivery failures are
// swallowed into an in-thread error message and a nil return; only the
// preconditions (empty input, send in flight) surface errors, and those
// leave the state untouched.
func (m *Manager) Send(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyInput
	}

	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return ErrBusy
	}
	m.sending = true
	m.messages = append(m.messages, api.Message{
		ID:     newMessageID(),
		Text:   trimmed,
		Sender: api.SenderUser,
	})
	conversationID := m.conversationID
	m.mu.Unlock()

	reply, err := m.sender.Send(ctx, trimmed, conversationID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sending = false

	if err != nil {
		m.logger.Warn("send failed", zap.Error(err))
		m.messages = append(m.messages, api.Message{
			ID:     newMessageID(),
			Text:   ErrorText,
			Sender: api.SenderBot,
			Type:   api.TypeError,
		})
		return nil
	}

	content, ok := reply.Content()
	if !ok {
		m.logger.Warn("reply envelope missing content",
			zap.String("conversation", reply.ConversationID))
		content = FallbackText
	}

	// Adopt the id exactly once; it never changes afterwards.
	if m.conversationID == "" && reply.ConversationID != "" {
		m.conversationID = reply.ConversationID
		m.entries = append([]api.HistoryEntry{{
			ID:        reply.ConversationID,
			Title:     historyTitle(trimmed),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Type:      m.kind,
		}}, m.entries...)
	}

	m.messages = append(m.messages, api.Message{
		ID:        newMessageID(),
		Text:      content,
		Sender:    api.SenderBot,
		Citations: reply.Response.Citations,
	})
	return nil
}

// historyTitle derives a sidebar title from the first user query: the
// first 30 characters plus an ellipsis when truncated.
func historyTitle(query string) string {
	runes := []rune(query)
	if len(runes) <= 30 {
		return query
	}
	return string(runes[:30]) + "..."
}

// StartNew resets the surface to a fresh conversation: the greeting
// alone, no conversation id, nothing in flight.
func (m *Manager) StartNew() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Load replaces the message list with the stored conversation id. On
// failure the prior state is untouched and the error is returned so the
// surface can show it.
func (m *Manager) Load(ctx context.Context, id string) error {
	if m.history == nil {
		return fmt.Errorf("conversation: no history source configured")
	}

	messages, err := m.history.Conversation(ctx, id)
	if err != nil {
		m.logger.Warn("load failed", zap.String("conversation", id), zap.Error(err))
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sending {
		return ErrBusy
	}
	m.messages = messages
	m.conversationID = id
	return nil
}

// RefreshHistory re-fetches the sidebar summaries. On failure the prior
// list is kept.
func (m *Manager) RefreshHistory(ctx context.Context) error {
	if m.history == nil {
		return nil
	}

	entries, err := m.history.History(ctx)
	if err != nil {
		m.logger.Warn("history refresh failed", zap.Error(err))
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	return nil
}
