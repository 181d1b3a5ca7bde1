package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
)

// typingTickInterval drives typing debounce expiry and the peer typing
// indicator; it must be well under the typing expiry window.
const typingTickInterval = time.Second

// ConversationPollTickMsg triggers a conversation directory refresh
type ConversationPollTickMsg time.Time

// MessagePollTickMsg triggers an active-conversation message refresh
type MessagePollTickMsg time.Time

// TypingTickMsg drives typing expiry on both sides
type TypingTickMsg time.Time

func (m *Model) conversationPollTick() tea.Cmd {
	return tea.Tick(m.config.ConversationPollInterval(), func(t time.Time) tea.Msg {
		return ConversationPollTickMsg(t)
	})
}

func (m *Model) messagePollTick() tea.Cmd {
	return tea.Tick(m.config.MessagePollInterval(), func(t time.Time) tea.Msg {
		return MessagePollTickMsg(t)
	})
}

func typingTick() tea.Cmd {
	return tea.Tick(typingTickInterval, func(t time.Time) tea.Msg {
		return TypingTickMsg(t)
	})
}

// handleConversationPoll refreshes the directory and re-arms the timer
func (m *Model) handleConversationPoll() tea.Cmd {
	return tea.Batch(m.fetchConversations(), m.conversationPollTick())
}

// handleMessagePoll refreshes the active conversation's messages, reusing
// the live fetch token so the result passes the staleness check unless the
// user has moved on. It also polls the peer typing state when available.
func (m *Model) handleMessagePoll() tea.Cmd {
	cmds := []tea.Cmd{m.messagePollTick()}

	session := m.core.Navigator.Session()
	if session.ActiveConversationID != "" && session.Phase == chat.PhaseReady {
		cmds = append(cmds, m.fetchTimeline(m.core.Navigator.Token(), session.ActiveConversationID))
		if cmd := m.pollPeerTyping(session.ActiveConversationID); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return tea.Batch(cmds...)
}

// handleTypingTick expires the local typing announcement past its deadline
// and drops stale peer typing indicators.
func (m *Model) handleTypingTick() tea.Cmd {
	now := time.Now()

	if sig := m.core.Composer.Expire(now); sig != nil {
		m.announceTyping(sig)
	}

	for convID, deadline := range m.peerTyping {
		if now.After(deadline) {
			delete(m.peerTyping, convID)
			m.sidebar.SetTyping(convID, false)
			if convID == m.activeConversationID() {
				m.header.SetTyping(false)
				m.chat.SetTyping(false)
			}
		}
	}

	return typingTick()
}
