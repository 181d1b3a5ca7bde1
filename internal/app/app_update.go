package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/logger"
	"github.com/parleyhq/parley/internal/notification"
	"github.com/parleyhq/parley/internal/ui"
)

// peerTypingWindow is how long a peer typing report stays visible without a
// renewal.
const peerTypingWindow = 4 * time.Second

// Update handles messages. This is the core Bubble Tea update function that
// routes all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled, fall through to the focused panel

	case conversationsMsg:
		return m.handleConversationsMsg(msg)

	case rosterMsg:
		return m.handleRosterMsg(msg)

	case timelineMsg:
		return m.handleTimelineMsg(msg)

	case sentMsg:
		return m.handleSentMsg(msg)

	case chatCreatedMsg:
		return m.handleChatCreatedMsg(msg)

	case peerTypingMsg:
		return m.handlePeerTypingMsg(msg)

	case ConversationPollTickMsg:
		return m, m.handleConversationPoll()

	case MessagePollTickMsg:
		return m, m.handleMessagePoll()

	case TypingTickMsg:
		return m, m.handleTypingTick()

	case ui.FlashTickMsg:
		if m.footer.TickFlash() {
			return m, ui.FlashTick()
		}
		return m, nil
	}

	// Forward remaining messages to the focused chat panel (composer and
	// viewport need key and mouse events)
	if m.focus == FocusChat {
		if cmd := m.chat.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if _, isKey := msg.(tea.KeyPressMsg); isKey {
			if cmd := m.onComposerEdit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// onComposerEdit mirrors the composer text into the draft and emits the
// debounced typing announcement.
func (m *Model) onComposerEdit() tea.Cmd {
	convID := m.activeConversationID()
	if convID == "" {
		return nil
	}
	m.core.Composer.SetDraft(convID, m.chat.InputValue())
	m.announceTyping(m.core.Composer.OnLocalEdit())
	return nil
}

func (m *Model) handleConversationsMsg(msg conversationsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Warn("App: conversation refresh failed: %v", msg.err)
		return m, m.ShowFlashError("Couldn't refresh conversations")
	}

	m.core.Directory.Refresh(msg.raw)

	cmd := m.notifyNewMessages()
	m.refreshViews()
	return m, cmd
}

// notifyNewMessages fires a desktop notification for conversations whose
// unread count grew, except the one currently on screen.
func (m *Model) notifyNewMessages() tea.Cmd {
	activeID := m.activeConversationID()
	convs := m.core.Directory.Conversations()

	seen := make(map[string]int, len(convs))
	for _, conv := range convs {
		seen[conv.ID] = conv.UnseenCount
		if conv.ID == activeID || conv.UnseenCount <= m.lastUnseen[conv.ID] {
			continue
		}
		if len(m.lastUnseen) == 0 {
			continue // first refresh, nothing is "new"
		}
		if m.config.GetNotificationsEnabled() {
			preview := ""
			if conv.LatestMessage != nil {
				preview = conv.LatestMessage.Text
			}
			if preview == "" {
				preview = "New message"
			}
			name := m.core.Roster.Resolve(conv.OtherUserID).DisplayName
			if err := notification.NewMessage(name, preview); err != nil {
				logger.Debug("App: notification failed: %v", err)
			}
		}
	}
	m.lastUnseen = seen
	return nil
}

func (m *Model) handleRosterMsg(msg rosterMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Warn("App: roster fetch failed: %v", msg.err)
		return m, nil
	}
	m.core.Roster.SetAll(msg.users)
	m.refreshViews()
	return m, nil
}

func (m *Model) handleTimelineMsg(msg timelineMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.core.Navigator.Fail(msg.token, msg.err) {
			m.chat.SetError("Couldn't load messages")
		}
		return m, nil
	}

	msgs := make([]chat.Message, 0, len(msg.page.Messages))
	for _, raw := range msg.page.Messages {
		msgs = append(msgs, raw.Message())
	}

	if !m.core.Navigator.Apply(msg.token, msgs) {
		return m, nil
	}

	if other := msg.page.OtherParticipant; other.ID != "" {
		m.core.Roster.Add(chat.Participant{
			ID:          other.ID,
			DisplayName: other.DisplayName,
			AvatarURL:   other.AvatarURL,
		})
	}

	// The server marks incoming messages seen when they are fetched
	m.core.Directory.SetUnseen(msg.conversationID, 0)

	m.refreshViews()
	return m, nil
}

func (m *Model) handleSentMsg(msg sentMsg) (tea.Model, tea.Cmd) {
	delete(m.pendingImages, msg.tmpID)

	if msg.err != nil {
		logger.Warn("App: send failed conv=%s: %v", msg.conversationID, msg.err)
		m.core.Timeline.MarkFailed(msg.tmpID)
		m.refreshViews()
		return m, m.ShowFlashError("Message failed to send")
	}

	if m.core.Timeline.ConversationID() == msg.conversationID {
		m.core.Timeline.Reconcile(msg.raw.Message())
	}

	// An empty preview text renders as "[Image]" in the sidebar
	m.core.Directory.Touch(msg.conversationID, chat.MessagePreview{
		Text:      msg.raw.Text,
		SenderID:  msg.raw.SenderID,
		Timestamp: msg.raw.CreatedAt,
	})

	m.refreshViews()
	return m, nil
}

func (m *Model) handleChatCreatedMsg(msg chatCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Warn("App: conversation create failed: %v", msg.err)
		return m, m.ShowFlashError("Couldn't start the conversation")
	}

	var cmds []tea.Cmd

	// If the placeholder is on screen, move the selection to the confirmed
	// record so sends go to the real conversation.
	session := m.core.Navigator.Session()
	if session.ActiveUserID == msg.otherUserID {
		token, stop, start := m.core.Navigator.Select(msg.conversationID, msg.otherUserID)
		m.announceTyping(stop)
		if start {
			cmds = append(cmds, m.fetchTimeline(token, msg.conversationID))
		}
	}

	cmds = append(cmds, m.fetchConversations())
	return m, tea.Batch(cmds...)
}

func (m *Model) handlePeerTypingMsg(msg peerTypingMsg) (tea.Model, tea.Cmd) {
	if msg.active {
		m.peerTyping[msg.conversationID] = time.Now().Add(peerTypingWindow)
	} else {
		delete(m.peerTyping, msg.conversationID)
	}

	m.sidebar.SetTyping(msg.conversationID, msg.active)
	if msg.conversationID == m.activeConversationID() {
		m.header.SetTyping(msg.active)
		m.chat.SetTyping(msg.active)
	}
	return m, nil
}
