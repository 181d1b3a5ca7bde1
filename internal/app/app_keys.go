package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/clipboard"
	"github.com/parleyhq/parley/internal/keys"
	"github.com/parleyhq/parley/internal/logger"
)

// handleKeyPress routes a key press. A nil model result means the key was
// not consumed and should fall through to the focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if m.sidebar.OverlayOpen() {
		return m.handleOverlayKey(msg)
	}

	if m.sidebar.InSearch() && m.focus == FocusSidebar {
		return m.handleSearchKey(msg)
	}

	if key == keys.Tab {
		m.toggleFocus()
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar && m.core.Navigator.Active() {
		m.focus = FocusChat
	} else {
		m.focus = FocusSidebar
	}
	m.sidebar.SetFocused(m.focus == FocusSidebar)
	m.chat.SetFocused(m.focus == FocusChat)
}

func (m *Model) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.sidebar.CloseOverlay()
		return m, nil
	case keys.Up:
		m.sidebar.MoveOverlay(-1)
		return m, nil
	case keys.Down:
		m.sidebar.MoveOverlay(1)
		return m, nil
	case keys.Enter:
		return m.startChatFromOverlay()
	default:
		return m, m.sidebar.UpdateOverlay(msg)
	}
}

// startChatFromOverlay opens (or creates) a conversation with the roster
// entry highlighted in the new-chat overlay.
func (m *Model) startChatFromOverlay() (tea.Model, tea.Cmd) {
	p, ok := m.sidebar.OverlaySelected()
	if !ok {
		return m, nil
	}
	m.sidebar.CloseOverlay()

	conv := m.core.Directory.UpsertOptimistic(p)
	m.refreshViews()
	m.sidebar.SelectByID(conv.ID)

	var cmds []tea.Cmd
	if cmd := m.selectConversation(conv); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if conv.IsPlaceholder() {
		cmds = append(cmds, m.createConversation(p.ID))
	}

	m.focus = FocusChat
	m.sidebar.SetFocused(false)
	m.chat.SetFocused(true)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		m.sidebar.ApplySearch()
		return m, nil
	case keys.Escape:
		m.sidebar.CancelSearch()
		return m, nil
	case keys.Up:
		m.sidebar.MoveUp()
		return m, nil
	case keys.Down:
		m.sidebar.MoveDown()
		return m, nil
	default:
		return m, m.sidebar.UpdateSearch(msg)
	}
}

func (m *Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case keys.Up:
		m.sidebar.MoveUp()
		return m, nil
	case keys.Down:
		m.sidebar.MoveDown()
		return m, nil
	case keys.CtrlF, "/":
		m.sidebar.StartSearch()
		return m, nil
	case keys.CtrlN:
		m.openNewChatOverlay()
		return m, nil
	case keys.Escape:
		m.sidebar.CancelSearch()
		return m, nil
	case keys.Enter:
		conv, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.selectConversation(conv)
		m.focus = FocusChat
		m.sidebar.SetFocused(false)
		m.chat.SetFocused(true)
		return m, cmd
	}
	return m, nil
}

// openNewChatOverlay shows the roster picker, excluding the local user.
func (m *Model) openNewChatOverlay() {
	all := m.core.Roster.All()
	roster := make([]chat.Participant, 0, len(all))
	for _, p := range all {
		if p.ID != m.config.GetUserID() {
			roster = append(roster, p)
		}
	}
	m.sidebar.OpenNewChat(roster)
}

func (m *Model) handleChatKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.focus = FocusSidebar
		m.sidebar.SetFocused(true)
		m.chat.SetFocused(false)
		return m, nil
	case keys.Enter:
		return m, m.sendCurrentMessage()
	case keys.PgUp:
		m.chat.ScrollUp()
		return m, nil
	case keys.PgDown:
		m.chat.ScrollDown()
		return m, nil
	case keys.CtrlV:
		return m, m.attachClipboardImage()
	case keys.CtrlX:
		m.dropStagedImage()
		return m, nil
	case keys.CtrlR:
		return m, m.retryFailedSend()
	}
	// Not consumed; the composer gets it
	return nil, nil
}

// selectConversation switches the session to a conversation. A placeholder
// conversation has nothing to fetch and goes straight to an empty timeline.
func (m *Model) selectConversation(conv chat.Conversation) tea.Cmd {
	token, stop, start := m.core.Navigator.Select(conv.ID, conv.OtherUserID)
	m.announceTyping(stop)
	if !start {
		return nil
	}

	m.stagedImage = nil
	m.chat.SetImageAttached("")
	m.header.SetTyping(false)

	other := m.core.Roster.Resolve(conv.OtherUserID)
	m.chat.SetConversation(other.DisplayName)
	m.header.SetConversation(other.DisplayName)

	if conv.IsPlaceholder() {
		m.core.Navigator.Apply(token, nil)
		m.refreshViews()
		return nil
	}

	m.chat.SetLoading(true)
	logger.Log("App: selected conversation %s (token %d)", conv.ID, token)
	return m.fetchTimeline(token, conv.ID)
}

// sendCurrentMessage validates and sends the composer content. An empty send
// is rejected before any transport work.
func (m *Model) sendCurrentMessage() tea.Cmd {
	convID := m.activeConversationID()
	if convID == "" {
		return nil
	}

	text := strings.TrimSpace(m.chat.InputValue())
	var imgBytes []byte
	if m.stagedImage != nil {
		imgBytes = m.stagedImage.Data
	}

	if text == "" && len(imgBytes) == 0 {
		return m.ShowFlashWarning("Can't send an empty message")
	}

	if conv, ok := m.core.Directory.FindByID(convID); ok && conv.IsPlaceholder() {
		return m.ShowFlashWarning("Still creating the conversation, try again in a moment")
	}

	var imageRef *chat.Image
	if len(imgBytes) > 0 {
		imageRef = &chat.Image{}
	}

	optimistic := m.core.Timeline.AppendOptimistic(text, imageRef)
	if len(imgBytes) > 0 {
		m.pendingImages[optimistic.ID] = imgBytes
	}

	m.core.Directory.Touch(convID, chat.MessagePreview{
		Text:      text,
		SenderID:  m.config.GetUserID(),
		Timestamp: optimistic.CreatedAt,
	})

	m.announceTyping(m.core.Composer.ClearOnSend())
	m.chat.ResetInput()
	m.stagedImage = nil

	m.refreshViews()
	return m.sendMessage(convID, optimistic.ID, text, imgBytes)
}

// retryFailedSend re-sends the most recent failed message in the timeline.
func (m *Model) retryFailedSend() tea.Cmd {
	convID := m.activeConversationID()
	if convID == "" {
		return nil
	}

	msgs := m.core.Timeline.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		failed := msgs[i]
		if !failed.Failed || failed.SenderID != m.config.GetUserID() {
			continue
		}

		imgBytes := m.pendingImages[failed.ID]
		delete(m.pendingImages, failed.ID)

		m.core.Timeline.Remove(failed.ID)
		fresh := m.core.Timeline.AppendOptimistic(failed.Text, failed.Image)
		if len(imgBytes) > 0 {
			m.pendingImages[fresh.ID] = imgBytes
		}

		m.refreshViews()
		return m.sendMessage(convID, fresh.ID, failed.Text, imgBytes)
	}
	return nil
}

// attachClipboardImage stages a clipboard image on the composer.
func (m *Model) attachClipboardImage() tea.Cmd {
	img, err := clipboard.ReadImage()
	if err != nil {
		logger.Debug("App: clipboard read failed: %v", err)
		return m.ShowFlashWarning("No image on the clipboard")
	}
	if err := img.Validate(); err != nil {
		return m.ShowFlashError(err.Error())
	}

	m.stagedImage = img
	m.chat.SetImageAttached(m.stagedImageLabel())
	return nil
}

func (m *Model) dropStagedImage() {
	m.stagedImage = nil
	m.chat.SetImageAttached("")
}
