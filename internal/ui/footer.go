package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width           int
	hasConversation bool // Whether a conversation is selected
	sidebarFocused  bool // Whether sidebar has focus
	searchMode      bool // Whether sidebar search is active
	overlayOpen     bool // Whether the new-chat overlay is showing
	imageAttached   bool // Whether a clipboard image is staged on the composer

	flashMessage *FlashMessage // Transient message replacing the bindings
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasConversation, sidebarFocused, searchMode, overlayOpen, imageAttached bool) {
	f.hasConversation = hasConversation
	f.sidebarFocused = sidebarFocused
	f.searchMode = searchMode
	f.overlayOpen = overlayOpen
	f.imageAttached = imageAttached
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		style := FlashStyle
		switch f.flashMessage.Type {
		case FlashWarning:
			style = style.Background(ColorWarning)
		case FlashInfo:
			style = style.Background(ColorSecondary)
		case FlashSuccess:
			style = style.Background(ColorSuccess)
		}
		return style.Width(f.width).Render(f.flashMessage.Text)
	}

	var bindings []KeyBinding

	switch {
	case f.overlayOpen:
		bindings = []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "start chat"},
			{Key: "esc", Desc: "close"},
		}
	case f.searchMode:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "apply"},
			{Key: "esc", Desc: "clear"},
		}
	case f.sidebarFocused:
		bindings = []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+f", Desc: "search"},
			{Key: "ctrl+n", Desc: "new chat"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "q", Desc: "quit"},
		}
	case f.hasConversation:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+v", Desc: "paste image"},
			{Key: "ctrl+r", Desc: "retry failed"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
		if f.imageAttached {
			bindings = append([]KeyBinding{{Key: "ctrl+x", Desc: "drop image"}}, bindings...)
		}
	default:
		bindings = []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "q", Desc: "quit"},
		}
	}

	var parts []string
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
