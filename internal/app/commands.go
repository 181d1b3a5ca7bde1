package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/logger"
	"github.com/parleyhq/parley/internal/transport"
)

const fetchTimeout = 20 * time.Second

// conversationsMsg carries a conversation directory refresh result
type conversationsMsg struct {
	raw []chat.RawConversation
	err error
}

// rosterMsg carries the user directory
type rosterMsg struct {
	users []chat.RawUser
	err   error
}

// timelineMsg carries a message fetch result, tagged with the fetch token
// captured when the request was issued.
type timelineMsg struct {
	token          uint64
	conversationID string
	page           *chat.MessagePage
	err            error
}

// sentMsg carries a send completion for the optimistic message tmpID
type sentMsg struct {
	conversationID string
	tmpID          string
	raw            *chat.RawMessage
	err            error
}

// chatCreatedMsg carries the server-confirmed id for a new conversation
type chatCreatedMsg struct {
	otherUserID    string
	conversationID string
	err            error
}

// peerTypingMsg reports the other participant's typing state
type peerTypingMsg struct {
	conversationID string
	active         bool
}

func (m *Model) fetchConversations() tea.Cmd {
	tp := m.transport
	userID := m.config.GetUserID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		raw, err := tp.FetchConversations(ctx, userID)
		return conversationsMsg{raw: raw, err: err}
	}
}

func (m *Model) fetchRoster() tea.Cmd {
	tp := m.transport
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		users, err := tp.FetchRoster(ctx)
		return rosterMsg{users: users, err: err}
	}
}

// fetchTimeline fetches messages for a conversation. The token pins the
// result to the selection that requested it; the handler discards the
// message when the token no longer matches.
func (m *Model) fetchTimeline(token uint64, conversationID string) tea.Cmd {
	tp := m.transport
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := tp.FetchMessages(ctx, conversationID)
		return timelineMsg{token: token, conversationID: conversationID, page: page, err: err}
	}
}

func (m *Model) sendMessage(conversationID, tmpID, text string, image []byte) tea.Cmd {
	tp := m.transport
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		raw, err := tp.SendMessage(ctx, conversationID, text, image)
		return sentMsg{conversationID: conversationID, tmpID: tmpID, raw: raw, err: err}
	}
}

func (m *Model) createConversation(otherUserID string) tea.Cmd {
	tp := m.transport
	userID := m.config.GetUserID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		id, err := tp.CreateConversation(ctx, userID, otherUserID)
		return chatCreatedMsg{otherUserID: otherUserID, conversationID: id, err: err}
	}
}

// announceTyping fires a typing signal at the transport. Failures are the
// transport's problem; nothing is retried.
func (m *Model) announceTyping(sig *chat.TypingSignal) {
	if sig == nil || sig.ConversationID == "" {
		return
	}
	logger.Debug("App: typing announce conv=%s active=%v", sig.ConversationID, sig.Active)
	m.transport.AnnounceTyping(sig.ConversationID, sig.Active)
}

// pollPeerTyping asks the transport for the other side's typing state, when
// the transport can report it.
func (m *Model) pollPeerTyping(conversationID string) tea.Cmd {
	feed, ok := m.transport.(transport.TypingFeed)
	if !ok || conversationID == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		active, err := feed.PollTyping(ctx, conversationID)
		if err != nil {
			return nil
		}
		return peerTypingMsg{conversationID: conversationID, active: active}
	}
}
