package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parleyhq/parley/internal/chat"
)

// InputHeight is the composer textarea height in rows
const InputHeight = 3

// InputTotalHeight is the composer height including its border
const InputTotalHeight = InputHeight + 2

// Chat represents the right panel: the message viewport and the composer.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model

	width  int
	height int

	focused       bool
	currentUserID string
	otherName     string
	messages      []chat.Message
	loading       bool
	errText       string
	otherTyping   bool
	imageLabel    string // non-empty when a clipboard image is staged
}

// NewChat creates a new chat panel for the given local user.
func NewChat(currentUserID string) *Chat {
	ti := textarea.New()
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 0
	ti.SetHeight(InputHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:      vp,
		input:         ti,
		currentUserID: currentUserID,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	innerWidth := width - 2
	viewportHeight := height - InputTotalHeight - 2
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	if innerWidth < 1 {
		innerWidth = 1
	}

	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(innerWidth - 2)
	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetConversation binds the panel to a conversation partner and clears any
// stale content.
func (c *Chat) SetConversation(otherName string) {
	c.otherName = otherName
	c.messages = nil
	c.errText = ""
	c.otherTyping = false
	c.updateContent()
}

// Clear unbinds the panel
func (c *Chat) Clear() {
	c.otherName = ""
	c.messages = nil
	c.loading = false
	c.errText = ""
	c.otherTyping = false
	c.imageLabel = ""
	c.input.SetValue("")
	c.updateContent()
}

// SetMessages installs the timeline and scrolls to the latest message.
func (c *Chat) SetMessages(msgs []chat.Message) {
	c.messages = msgs
	c.loading = false
	c.updateContent()
	c.viewport.GotoBottom()
}

// SetLoading toggles the loading indicator
func (c *Chat) SetLoading(loading bool) {
	c.loading = loading
	c.updateContent()
}

// SetError shows a fetch error above the composer; existing messages stay
// visible.
func (c *Chat) SetError(text string) {
	c.errText = text
	c.loading = false
	c.updateContent()
}

// SetTyping toggles the other participant's typing indicator.
func (c *Chat) SetTyping(typing bool) {
	if c.otherTyping == typing {
		return
	}
	c.otherTyping = typing
	c.updateContent()
	c.viewport.GotoBottom()
}

// SetImageAttached stages a clipboard image label on the composer, or clears
// it with "".
func (c *Chat) SetImageAttached(label string) {
	c.imageLabel = label
}

// ImageAttached reports whether an image is staged.
func (c *Chat) ImageAttached() bool {
	return c.imageLabel != ""
}

// InputValue returns the composer text
func (c *Chat) InputValue() string {
	return c.input.Value()
}

// ResetInput clears the composer
func (c *Chat) ResetInput() {
	c.input.SetValue("")
	c.imageLabel = ""
}

// Update forwards messages to the composer and viewport.
func (c *Chat) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if c.focused {
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

// ScrollUp scrolls the viewport up one page
func (c *Chat) ScrollUp() {
	c.viewport.PageUp()
}

// ScrollDown scrolls the viewport down one page
func (c *Chat) ScrollDown() {
	c.viewport.PageDown()
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	body := panelStyle.
		Width(c.width - 2).
		Height(c.height - InputTotalHeight - 2).
		Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}

	inputView := c.input.View()
	if c.imageLabel != "" {
		inputView = ChatImageStyle.Render("📎 "+c.imageLabel) + "\n" + inputView
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		inputStyle.Width(c.width-4).Render(inputView),
	)
}

// updateContent rebuilds the viewport content from the timeline.
func (c *Chat) updateContent() {
	width := c.viewport.Width()
	if width < 1 {
		width = 1
	}

	var b strings.Builder

	switch {
	case c.otherName == "":
		b.WriteString(StatusLoadingStyle.Render("Select a conversation to start chatting"))
	case c.loading && len(c.messages) == 0:
		b.WriteString(StatusLoadingStyle.Render("loading messages..."))
	case len(c.messages) == 0 && c.errText == "":
		b.WriteString(StatusLoadingStyle.Render("No messages yet. Say hello to " + c.otherName + "!"))
	default:
		for i, m := range c.messages {
			b.WriteString(c.renderMessage(m, width))
			if i < len(c.messages)-1 {
				b.WriteString("\n\n")
			}
		}
	}

	if c.otherTyping {
		b.WriteString("\n\n")
		b.WriteString(HeaderTypingStyle.Render(c.otherName + " is typing…"))
	}

	if c.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(StatusErrorStyle.Render(c.errText))
	}

	c.viewport.SetContent(b.String())
}

// renderMessage renders a single message: a label line with sender, time,
// and delivery state, then the body.
func (c *Chat) renderMessage(m chat.Message, width int) string {
	mine := m.SenderID == c.currentUserID

	var label string
	if mine {
		label = ChatSelfStyle.Render("You")
	} else {
		label = ChatOtherStyle.Render(c.otherName)
	}

	when := ChatTimeStyle.Render(FormatMessageTime(m.CreatedAt, time.Now()))

	status := ""
	switch {
	case mine && m.Failed:
		status = ChatFailedStyle.Render("failed to send")
	case mine && m.Pending:
		status = ChatPendingStyle.Render("sending…")
	case mine && m.Seen:
		seenAt := ""
		if !m.SeenAt.IsZero() {
			seenAt = " " + FormatMessageTime(m.SeenAt, time.Now())
		}
		status = ChatSeenStyle.Render(SeenTicks(true) + seenAt)
	case mine:
		status = ChatSeenStyle.Render(SeenTicks(false))
	}

	header := label + " " + when
	if status != "" {
		header += "  " + status
	}

	var body string
	if m.Kind == chat.MessageImage {
		body = ChatImageStyle.Render("[Image]")
		if m.Image != nil && m.Image.URL != "" {
			body += " " + ChatTimeStyle.Render(m.Image.URL)
		}
		if m.Text != "" {
			body += "\n" + RenderMessageBody(m.Text, width)
		}
	} else {
		body = RenderMessageBody(m.Text, width)
	}

	return fmt.Sprintf("%s\n%s", header, body)
}
