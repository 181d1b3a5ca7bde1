package transport

import (
	"context"
	"sync"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/errors"
)

// TypingCall records one AnnounceTyping invocation.
type TypingCall struct {
	ConversationID string
	Active         bool
}

// Mock is a scriptable in-memory Transport for tests and demo mode. Each
// operation delegates to an optional Fn field; unset functions return empty
// results. Calls are recorded for assertion.
type Mock struct {
	mu sync.Mutex

	ConversationsFn func(userID string) ([]chat.RawConversation, error)
	MessagesFn      func(conversationID string) (*chat.MessagePage, error)
	CreateFn        func(userID, otherUserID string) (string, error)
	SendFn          func(conversationID, text string, image []byte) (*chat.RawMessage, error)
	RosterFn        func() ([]chat.RawUser, error)

	Calls       []string
	TypingCalls []TypingCall
}

// NewMock returns an empty mock.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named operation ran.
func (m *Mock) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// FetchConversations implements Transport.
func (m *Mock) FetchConversations(ctx context.Context, userID string) ([]chat.RawConversation, error) {
	m.record("FetchConversations")
	if m.ConversationsFn != nil {
		return m.ConversationsFn(userID)
	}
	return nil, nil
}

// FetchMessages implements Transport.
func (m *Mock) FetchMessages(ctx context.Context, conversationID string) (*chat.MessagePage, error) {
	m.record("FetchMessages")
	if m.MessagesFn != nil {
		return m.MessagesFn(conversationID)
	}
	return &chat.MessagePage{}, nil
}

// CreateConversation implements Transport.
func (m *Mock) CreateConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	m.record("CreateConversation")
	if m.CreateFn != nil {
		return m.CreateFn(userID, otherUserID)
	}
	return "mock-conv", nil
}

// SendMessage implements Transport. The empty-send validation lives here as
// well as in the HTTP client, so tests exercise the same contract.
func (m *Mock) SendMessage(ctx context.Context, conversationID, text string, image []byte) (*chat.RawMessage, error) {
	if text == "" && len(image) == 0 {
		return nil, errors.EmptyMessage()
	}
	m.record("SendMessage")
	if m.SendFn != nil {
		return m.SendFn(conversationID, text, image)
	}
	raw := chat.RawMessage{ID: "mock-msg", ConversationID: conversationID, Kind: chat.MessageText, Text: text}
	return &raw, nil
}

// AnnounceTyping implements Transport.
func (m *Mock) AnnounceTyping(conversationID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TypingCalls = append(m.TypingCalls, TypingCall{ConversationID: conversationID, Active: active})
}

// FetchRoster implements Transport.
func (m *Mock) FetchRoster(ctx context.Context) ([]chat.RawUser, error) {
	m.record("FetchRoster")
	if m.RosterFn != nil {
		return m.RosterFn()
	}
	return nil, nil
}

// LastTyping returns the most recent typing call, if any.
func (m *Mock) LastTyping() (TypingCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.TypingCalls) == 0 {
		return TypingCall{}, false
	}
	return m.TypingCalls[len(m.TypingCalls)-1], true
}
