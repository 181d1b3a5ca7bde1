package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parleyhq/parley/internal/chat"
)

// SidebarSearchCharLimit caps the search input length
const SidebarSearchCharLimit = 64

// sidebarItemHeight is the rendered height of one conversation row
// (name/time line plus preview line).
const sidebarItemHeight = 2

// Sidebar represents the left panel with the conversation list, search, and
// the new-chat roster overlay.
type Sidebar struct {
	conversations []chat.Conversation
	filtered      []chat.Conversation
	selectedIdx   int
	width         int
	height        int
	focused       bool
	scrollOffset  int
	typing        map[string]bool // conversation ids where the other party is typing

	searchMode  bool
	searchInput textinput.Model

	// New-chat overlay state
	overlayOpen    bool
	roster         []chat.Participant
	rosterFiltered []chat.Participant
	overlayIdx     int
	overlayInput   textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = SidebarSearchCharLimit

	oi := textinput.New()
	oi.Placeholder = "who?"
	oi.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		typing:       make(map[string]bool),
		searchInput:  si,
		overlayInput: oi,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetConversations installs the ordered conversation list, preserving the
// current selection by id where possible.
func (s *Sidebar) SetConversations(convs []chat.Conversation) {
	var selectedID string
	if c, ok := s.Selected(); ok {
		selectedID = c.ID
	}

	s.conversations = convs
	s.applyFilter()

	if selectedID != "" {
		for i, c := range s.filtered {
			if c.ID == selectedID {
				s.selectedIdx = i
				return
			}
		}
	}
	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = 0
	}
}

// SetTyping records whether the other party is typing in a conversation.
func (s *Sidebar) SetTyping(conversationID string, typing bool) {
	if typing {
		s.typing[conversationID] = true
	} else {
		delete(s.typing, conversationID)
	}
}

// Selected returns the currently highlighted conversation.
func (s *Sidebar) Selected() (chat.Conversation, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.filtered) {
		return chat.Conversation{}, false
	}
	return s.filtered[s.selectedIdx], true
}

// SelectByID moves the highlight to the conversation with the given id.
func (s *Sidebar) SelectByID(id string) {
	for i, c := range s.filtered {
		if c.ID == id {
			s.selectedIdx = i
			s.scrollToSelection()
			return
		}
	}
}

// MoveUp moves the selection up one conversation
func (s *Sidebar) MoveUp() {
	if s.selectedIdx > 0 {
		s.selectedIdx--
		s.scrollToSelection()
	}
}

// MoveDown moves the selection down one conversation
func (s *Sidebar) MoveDown() {
	if s.selectedIdx < len(s.filtered)-1 {
		s.selectedIdx++
		s.scrollToSelection()
	}
}

func (s *Sidebar) scrollToSelection() {
	visible := s.visibleRows()
	if visible < 1 {
		visible = 1
	}
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+visible {
		s.scrollOffset = s.selectedIdx - visible + 1
	}
}

func (s *Sidebar) visibleRows() int {
	// Border (2) plus search line when active
	avail := s.height - 2
	if s.searchMode {
		avail -= 1
	}
	return avail / sidebarItemHeight
}

// StartSearch enters search mode
func (s *Sidebar) StartSearch() {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.searchInput.Focus()
	s.applyFilter()
}

// ApplySearch leaves search mode but keeps the filter applied
func (s *Sidebar) ApplySearch() {
	s.searchMode = false
	s.searchInput.Blur()
}

// CancelSearch leaves search mode and clears the filter
func (s *Sidebar) CancelSearch() {
	s.searchMode = false
	s.searchInput.SetValue("")
	s.searchInput.Blur()
	s.applyFilter()
}

// InSearch reports whether search mode is active
func (s *Sidebar) InSearch() bool {
	return s.searchMode
}

// UpdateSearch forwards a key press to the search input and refilters.
func (s *Sidebar) UpdateSearch(msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	s.searchInput, cmd = s.searchInput.Update(msg)
	s.applyFilter()
	return cmd
}

func (s *Sidebar) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(s.searchInput.Value()))
	if query == "" {
		s.filtered = s.conversations
	} else {
		s.filtered = nil
		for _, c := range s.conversations {
			if strings.Contains(strings.ToLower(c.Other.DisplayName), query) {
				s.filtered = append(s.filtered, c)
			}
		}
	}
	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = 0
		s.scrollOffset = 0
	}
}

// OpenNewChat opens the roster overlay for starting a conversation.
func (s *Sidebar) OpenNewChat(roster []chat.Participant) {
	s.overlayOpen = true
	s.roster = roster
	s.rosterFiltered = roster
	s.overlayIdx = 0
	s.overlayInput.SetValue("")
	s.overlayInput.Focus()
}

// CloseOverlay closes the new-chat overlay.
func (s *Sidebar) CloseOverlay() {
	s.overlayOpen = false
	s.overlayInput.Blur()
}

// OverlayOpen reports whether the new-chat overlay is showing.
func (s *Sidebar) OverlayOpen() bool {
	return s.overlayOpen
}

// MoveOverlay moves the overlay selection by delta.
func (s *Sidebar) MoveOverlay(delta int) {
	next := s.overlayIdx + delta
	if next >= 0 && next < len(s.rosterFiltered) {
		s.overlayIdx = next
	}
}

// OverlaySelected returns the highlighted roster entry.
func (s *Sidebar) OverlaySelected() (chat.Participant, bool) {
	if s.overlayIdx < 0 || s.overlayIdx >= len(s.rosterFiltered) {
		return chat.Participant{}, false
	}
	return s.rosterFiltered[s.overlayIdx], true
}

// UpdateOverlay forwards a key press to the overlay's filter input.
func (s *Sidebar) UpdateOverlay(msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	s.overlayInput, cmd = s.overlayInput.Update(msg)

	query := strings.ToLower(strings.TrimSpace(s.overlayInput.Value()))
	if query == "" {
		s.rosterFiltered = s.roster
	} else {
		s.rosterFiltered = nil
		for _, p := range s.roster {
			if strings.Contains(strings.ToLower(p.DisplayName), query) {
				s.rosterFiltered = append(s.rosterFiltered, p)
			}
		}
	}
	if s.overlayIdx >= len(s.rosterFiltered) {
		s.overlayIdx = 0
	}
	return cmd
}

// View renders the sidebar panel
func (s *Sidebar) View() string {
	innerWidth := s.width - 2
	if innerWidth < 4 {
		innerWidth = 4
	}

	var b strings.Builder

	if s.searchMode {
		b.WriteString(s.searchInput.View())
		b.WriteString("\n")
	}

	if len(s.filtered) == 0 {
		empty := "no conversations"
		if s.searchInput.Value() != "" {
			empty = "no matches"
		}
		b.WriteString(SidebarPreviewStyle.Render(empty))
	} else {
		visible := s.visibleRows()
		end := s.scrollOffset + visible
		if end > len(s.filtered) {
			end = len(s.filtered)
		}
		for i := s.scrollOffset; i < end; i++ {
			b.WriteString(s.renderItem(s.filtered[i], i == s.selectedIdx, innerWidth))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	return style.Width(s.width - 2).Height(s.height - 2).Render(b.String())
}

// renderItem renders one conversation as a two-line row: name and time on
// the first line, preview and unread badge on the second.
func (s *Sidebar) renderItem(c chat.Conversation, selected bool, width int) string {
	name := c.Other.DisplayName
	when := ""
	if c.LatestMessage != nil {
		when = FormatMessageTime(c.LatestMessage.Timestamp, time.Now())
	}

	nameWidth := width - len([]rune(when)) - 3
	if nameWidth < 1 {
		nameWidth = 1
	}
	name = TruncatePreview(name, nameWidth)

	pad := width - len([]rune(name)) - len([]rune(when)) - 2
	if pad < 1 {
		pad = 1
	}
	topLine := name + strings.Repeat(" ", pad) + when

	preview := s.previewFor(c)
	badge := ""
	if c.UnseenCount > 0 {
		badge = UnreadBadgeStyle.Render(fmt.Sprintf("%d", c.UnseenCount))
		preview = TruncatePreview(preview, width-6)
	} else {
		preview = TruncatePreview(preview, width-2)
	}

	bottomLine := SidebarPreviewStyle.Render(preview)
	if badge != "" {
		bottomLine = lipgloss.JoinHorizontal(lipgloss.Top, bottomLine, " ", badge)
	}

	if selected {
		return SidebarSelectedStyle.Render(topLine) + "\n" + SidebarItemStyle.Render(bottomLine)
	}
	return SidebarItemStyle.Render(topLine) + "\n" + SidebarItemStyle.Render(bottomLine)
}

func (s *Sidebar) previewFor(c chat.Conversation) string {
	if s.typing[c.ID] {
		return "typing…"
	}
	if c.LatestMessage == nil {
		return "say hello"
	}
	if c.LatestMessage.Text == "" {
		return "[Image]"
	}
	return c.LatestMessage.Text
}

// OverlayView renders the new-chat roster picker.
func (s *Sidebar) OverlayView() string {
	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render("New chat"))
	b.WriteString("\n")
	b.WriteString(s.overlayInput.View())
	b.WriteString("\n\n")

	if len(s.rosterFiltered) == 0 {
		b.WriteString(SidebarPreviewStyle.Render("nobody matches"))
	}
	for i, p := range s.rosterFiltered {
		line := p.DisplayName
		if i == s.overlayIdx {
			line = SidebarSelectedStyle.Render(line)
		} else {
			line = SidebarItemStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(s.rosterFiltered)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(OverlayHelpStyle.Render("enter: start chat · esc: close"))
	return OverlayStyle.Render(b.String())
}
