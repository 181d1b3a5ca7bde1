package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width       int
	otherName   string
	otherTyping bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConversation sets the other participant's name to display
func (h *Header) SetConversation(name string) {
	h.otherName = name
}

// SetTyping sets whether the other participant is typing
func (h *Header) SetTyping(typing bool) {
	h.otherTyping = typing
}

// View renders the header
func (h *Header) View() string {
	titleText := " parley"
	var rightText string
	if h.otherName != "" {
		rightText = h.otherName
		if h.otherTyping {
			rightText += " (typing…)"
		}
		rightText += " "
	}

	paddingLen := h.width - len(titleText) - len([]rune(rightText))
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText

	return h.renderGradient(fullContent)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background,
// fading from the primary color to the main background.
func (h *Header) renderGradient(content string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	typingColor := lipgloss.Color(theme.Secondary)

	// The "(typing…)" suffix, when present, is tinted
	typingStart := -1
	if h.otherTyping {
		if idx := strings.Index(content, "(typing…)"); idx >= 0 {
			typingStart = utf8.RuneCountInString(content[:idx])
		}
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		inTyping := typingStart >= 0 && i >= typingStart

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < 7) // Bold for the "parley" title

		if inTyping {
			style = style.Foreground(typingColor).Italic(true)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
