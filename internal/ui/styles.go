package ui

import "charm.land/lipgloss/v2"

// Color palette, regenerated when the theme changes
var (
	ColorPrimary     = lipgloss.Color("#7C3AED")
	ColorSecondary   = lipgloss.Color("#06B6D4")
	ColorBorder      = lipgloss.Color("#374151")
	ColorBorderFocus = lipgloss.Color("#7C3AED")
	ColorText        = lipgloss.Color("#F9FAFB")
	ColorTextMuted   = lipgloss.Color("#9CA3AF")
	ColorSelf        = lipgloss.Color("#A78BFA")
	ColorOther       = lipgloss.Color("#22D3EE")
	ColorWarning     = lipgloss.Color("#F59E0B")
	ColorError       = lipgloss.Color("#EF4444")
	ColorSuccess     = lipgloss.Color("#10B981")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	HeaderTypingStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(ColorSecondary)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)
)

// Sidebar styles
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(BuiltinThemes[DefaultTheme].GetBgSelected())).
				Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].Text)).
				Bold(true).
				Padding(0, 1)

	SidebarPreviewStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	SidebarTimeStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	UnreadBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].TextInverse)).
				Background(ColorSecondary).
				Padding(0, 1)
)

// Chat styles
var (
	ChatSelfStyle = lipgloss.NewStyle().
			Foreground(ColorSelf).
			Bold(true)

	ChatOtherStyle = lipgloss.NewStyle().
			Foreground(ColorOther).
			Bold(true)

	ChatMessageStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	ChatTimeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ChatSeenStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ChatPendingStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	ChatFailedStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ChatImageStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)
)

// Overlay styles (new-chat roster picker)
var (
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				MarginBottom(1)

	OverlayHelpStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				MarginTop(1)
)

// Status styles
var (
	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	FlashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorError).
			Padding(0, 1)
)

// regenerateStyles rebuilds the palette and every derived style from a theme.
func regenerateStyles(t Theme) {
	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorSelf = lipgloss.Color(t.Self)
	ColorOther = lipgloss.Color(t.Other)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorError = lipgloss.Color(t.Error)
	ColorSuccess = lipgloss.Color(t.Success)

	HeaderStyle = HeaderStyle.Foreground(ColorText).Background(ColorPrimary)
	HeaderTypingStyle = HeaderTypingStyle.Foreground(ColorSecondary)
	FooterStyle = FooterStyle.Foreground(ColorTextMuted)
	FooterKeyStyle = FooterKeyStyle.Foreground(ColorSecondary)
	FooterDescStyle = FooterDescStyle.Foreground(ColorTextMuted)
	PanelStyle = PanelStyle.BorderForeground(ColorBorder)
	PanelFocusedStyle = PanelFocusedStyle.BorderForeground(ColorBorderFocus)
	SidebarSelectedStyle = SidebarSelectedStyle.
		Background(lipgloss.Color(t.GetBgSelected())).
		Foreground(lipgloss.Color(t.Text))
	SidebarPreviewStyle = SidebarPreviewStyle.Foreground(ColorTextMuted)
	SidebarTimeStyle = SidebarTimeStyle.Foreground(ColorTextMuted)
	UnreadBadgeStyle = UnreadBadgeStyle.
		Foreground(lipgloss.Color(t.TextInverse)).
		Background(ColorSecondary)
	ChatSelfStyle = ChatSelfStyle.Foreground(ColorSelf)
	ChatOtherStyle = ChatOtherStyle.Foreground(ColorOther)
	ChatMessageStyle = ChatMessageStyle.Foreground(ColorText)
	ChatTimeStyle = ChatTimeStyle.Foreground(ColorTextMuted)
	ChatSeenStyle = ChatSeenStyle.Foreground(ColorSuccess)
	ChatPendingStyle = ChatPendingStyle.Foreground(ColorTextMuted)
	ChatFailedStyle = ChatFailedStyle.Foreground(ColorError)
	ChatImageStyle = ChatImageStyle.Foreground(ColorSecondary)
	ChatInputStyle = ChatInputStyle.BorderForeground(ColorBorder)
	ChatInputFocusedStyle = ChatInputFocusedStyle.BorderForeground(ColorBorderFocus)
	OverlayStyle = OverlayStyle.BorderForeground(ColorPrimary)
	OverlayTitleStyle = OverlayTitleStyle.Foreground(ColorPrimary)
	OverlayHelpStyle = OverlayHelpStyle.Foreground(ColorTextMuted)
	StatusLoadingStyle = StatusLoadingStyle.Foreground(ColorSecondary)
	StatusErrorStyle = StatusErrorStyle.Foreground(ColorError)
	FlashStyle = FlashStyle.Foreground(ColorText).Background(ColorError)
}
