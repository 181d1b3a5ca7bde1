// Package app wires the synchronization core, the transport, and the UI
// panels into the Bubble Tea program. The core is mutated only from Update;
// transport calls run as commands and funnel their results back as messages.
package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/clipboard"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/logger"
	"github.com/parleyhq/parley/internal/transport"
	"github.com/parleyhq/parley/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Model is the main Bubble Tea model
type Model struct {
	config    *config.Config
	transport transport.Transport
	version   string // App version (injected at build time)

	core *chat.Core

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat

	width  int
	height int
	focus  Focus

	stagedImage *clipboard.ImageData

	// Image bytes for in-flight optimistic sends, kept so a failed send can
	// be retried. Keyed by the optimistic message id.
	pendingImages map[string][]byte

	// Expiry deadline for the other side's typing indicator, per conversation.
	peerTyping map[string]time.Time

	// Unread counts from the previous conversation refresh, used to decide
	// which conversations gained messages and deserve a notification.
	lastUnseen map[string]int
}

// New creates a new app model
func New(cfg *config.Config, tp transport.Transport, version string) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.ApplyTheme(ui.ThemeName(savedTheme))
	}

	userID := cfg.GetUserID()
	m := &Model{
		config:        cfg,
		transport:     tp,
		version:       version,
		core:          chat.NewCore(userID),
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(userID),
		focus:         FocusSidebar,
		pendingImages: make(map[string][]byte),
		peerTyping:    make(map[string]time.Time),
		lastUnseen:    make(map[string]int),
	}
	m.sidebar.SetFocused(true)
	return m
}

// Init starts the initial fetches and the poll timers.
func (m *Model) Init() tea.Cmd {
	logger.Log("App: starting, user=%s", m.config.GetUserID())
	return tea.Batch(
		m.fetchConversations(),
		m.fetchRoster(),
		m.conversationPollTick(),
		m.messagePollTick(),
		typingTick(),
	)
}

// updateSizes recalculates panel dimensions after a resize
func (m *Model) updateSizes() {
	sidebarWidth := m.width / 3
	if sidebarWidth > 44 {
		sidebarWidth = 44
	}
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}

	panelHeight := m.height - 2 // header + footer

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.sidebar.SetSize(sidebarWidth, panelHeight)
	m.chat.SetSize(m.width-sidebarWidth, panelHeight)
}

// refreshViews pushes the current core snapshot into the panels.
func (m *Model) refreshViews() {
	snap := m.core.Snapshot()

	m.sidebar.SetConversations(snap.Conversations)

	if snap.Session.ActiveConversationID != "" {
		other := m.core.Roster.Resolve(snap.Session.ActiveUserID)
		m.header.SetConversation(other.DisplayName)
		if snap.Session.Phase == chat.PhaseReady {
			m.chat.SetMessages(snap.Timeline)
		}
	} else {
		m.header.SetConversation("")
	}
}

// updateFooterContext syncs the footer's conditional bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(
		m.core.Navigator.Active(),
		m.focus == FocusSidebar,
		m.sidebar.InSearch(),
		m.sidebar.OverlayOpen(),
		m.stagedImage != nil,
	)
}

// activeConversationID returns the selected conversation id, or ""
func (m *Model) activeConversationID() string {
	return m.core.Navigator.Session().ActiveConversationID
}

// stagedImageLabel describes the staged clipboard image for the composer
func (m *Model) stagedImageLabel() string {
	if m.stagedImage == nil {
		return ""
	}
	return fmt.Sprintf("clipboard.png (%d KB)", m.stagedImage.SizeKB())
}
