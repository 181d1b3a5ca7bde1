// Package ui renders the read-only snapshot the sync core exposes: the
// conversation sidebar, the chat panel with its composer, and the header and
// footer chrome. It also provides theme management; themes define the color
// palette used throughout the UI.
package ui

import "sync"

// Theme defines a complete color palette for the application.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (used for focus, highlights, headers)
	Primary string
	// Secondary is the secondary accent color (used for incoming messages, info)
	Secondary string

	// Background colors
	Bg         string // Main background
	BgSelected string // Selected item background (defaults to Primary if empty)

	// Text colors
	Text        string // Primary text
	TextMuted   string // Secondary/muted text
	TextInverse string // Text on colored backgrounds

	// Semantic colors
	Self    string // The local user's messages
	Other   string // The other participant's messages
	Warning string // Pending/retry states
	Error   string // Errors, failed sends
	Success string // Seen ticks, success states

	// Border colors
	Border      string // Default borders
	BorderFocus string // Focused element borders (defaults to Primary if empty)

	// Code colors (fenced blocks in messages)
	CodeBg string // Code block background
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:        "Dark Purple",
		Primary:     "#7C3AED",
		Secondary:   "#06B6D4",
		Bg:          "#1F2937",
		Text:        "#F9FAFB",
		TextMuted:   "#9CA3AF",
		TextInverse: "#1F2937",
		Self:        "#A78BFA",
		Other:       "#22D3EE",
		Warning:     "#F59E0B",
		Error:       "#EF4444",
		Success:     "#10B981",
		Border:      "#374151",
		CodeBg:      "#1E1E2E",
	},
	ThemeNord: {
		Name:        "Nord",
		Primary:     "#88C0D0",
		Secondary:   "#81A1C1",
		Bg:          "#2E3440",
		Text:        "#ECEFF4",
		TextMuted:   "#7B88A1",
		TextInverse: "#2E3440",
		Self:        "#B48EAD",
		Other:       "#88C0D0",
		Warning:     "#EBCB8B",
		Error:       "#BF616A",
		Success:     "#A3BE8C",
		Border:      "#434C5E",
		CodeBg:      "#3B4252",
	},
	ThemeLight: {
		Name:        "Light",
		Primary:     "#6D28D9",
		Secondary:   "#0E7490",
		Bg:          "#FFFFFF",
		Text:        "#111827",
		TextMuted:   "#6B7280",
		TextInverse: "#F9FAFB",
		Self:        "#6D28D9",
		Other:       "#0E7490",
		Warning:     "#B45309",
		Error:       "#B91C1C",
		Success:     "#047857",
		Border:      "#D1D5DB",
		CodeBg:      "#F3F4F6",
	},
}

var (
	themeMu      sync.RWMutex
	currentTheme = BuiltinThemes[DefaultTheme]
)

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ApplyTheme activates a theme by name and regenerates the style set.
// Unknown names fall back to the default theme.
func ApplyTheme(name ThemeName) {
	theme, ok := BuiltinThemes[name]
	if !ok {
		theme = BuiltinThemes[DefaultTheme]
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	regenerateStyles(theme)
}
