package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FlashType categorizes a flash message
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

// DefaultFlashDuration is how long a flash message stays visible
const DefaultFlashDuration = 4 * time.Second

// FlashMessage is a transient message shown in the footer
type FlashMessage struct {
	Text     string
	Type     FlashType
	Duration time.Duration
	SetAt    time.Time
}

// FlashTickMsg drives flash message expiry
type FlashTickMsg time.Time

// FlashTick returns a command that sends a FlashTickMsg once a second while a
// flash message is showing.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// SetFlash shows a flash message with the default duration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message with a custom duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, duration time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:     text,
		Type:     flashType,
		Duration: duration,
		SetAt:    time.Now(),
	}
}

// ClearFlash removes the flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// TickFlash expires the flash message if its duration has elapsed. It returns
// true while the flash is still live and another tick is needed.
func (f *Footer) TickFlash() bool {
	if f.flashMessage == nil {
		return false
	}
	if time.Since(f.flashMessage.SetAt) >= f.flashMessage.Duration {
		f.flashMessage = nil
		return false
	}
	return true
}
