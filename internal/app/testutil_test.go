package app

import (
	"errors"
	"regexp"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/keys"
	"github.com/parleyhq/parley/internal/transport"
)

// errFake stands in for transport failures in tests.
var errFake = errors.New("transport exploded")

// stripANSI removes ANSI escape codes from a string for testing
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// testConfig creates a minimal config for testing.
func testConfig() *config.Config {
	return &config.Config{
		UserID:                  "user-me",
		UserName:                "Test User",
		ConversationPollSeconds: 15,
		MessagePollSeconds:      5,
	}
}

// testModel creates a test Model with a scriptable mock transport.
func testModel(cfg *config.Config) (*Model, *transport.Mock) {
	mock := transport.NewMock()
	m := New(cfg, mock, "0.0.0-test")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, mock
}

// testConversations builds two raw conversations for user-me.
func testRawConversations() []chat.RawConversation {
	now := time.Now()
	return []chat.RawConversation{
		{
			ID:             "conv-a",
			ParticipantIDs: []string{"user-me", "user-ada"},
			LatestMessage:  &chat.MessagePreview{Text: "hello from ada", SenderID: "user-ada", Timestamp: now.Add(-time.Minute)},
			UpdatedAt:      now.Add(-time.Minute),
		},
		{
			ID:             "conv-b",
			ParticipantIDs: []string{"user-me", "user-alan"},
			LatestMessage:  &chat.MessagePreview{Text: "hello from alan", SenderID: "user-alan", Timestamp: now.Add(-time.Hour)},
			UpdatedAt:      now.Add(-time.Hour),
		},
	}
}

func testRawRoster() []chat.RawUser {
	return []chat.RawUser{
		{ID: "user-ada", DisplayName: "Ada Lovelace"},
		{ID: "user-alan", DisplayName: "Alan Turing"},
		{ID: "user-grace", DisplayName: "Grace Hopper"},
	}
}

// loadDirectory primes the model with conversations and roster, the way the
// startup fetches would.
func loadDirectory(m *Model) *Model {
	m = deliver(m, rosterMsg{users: testRawRoster()})
	return deliver(m, conversationsMsg{raw: testRawConversations()})
}

// deliver sends a message through Update and returns the updated model.
func deliver(m *Model, msg tea.Msg) *Model {
	result, _ := m.Update(msg)
	return result.(*Model)
}

// deliverCmd sends a message through Update and returns the command too.
func deliverCmd(m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	result, cmd := m.Update(msg)
	return result.(*Model), cmd
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlF:
		return tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case keys.CtrlX:
		return tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the updated model.
func sendKey(m *Model, key string) *Model {
	result, _ := m.Update(keyPress(key))
	return result.(*Model)
}

// sendKeyCmd sends a key press and returns the resulting command as well.
func sendKeyCmd(m *Model, key string) (*Model, tea.Cmd) {
	result, cmd := m.Update(keyPress(key))
	return result.(*Model), cmd
}

// typeText simulates typing a string by sending individual key presses.
func typeText(m *Model, text string) *Model {
	for _, ch := range text {
		m = sendKey(m, string(ch))
	}
	return m
}

// selectFirstConversation drives the sidebar to open the first conversation
// and returns the fetch token captured for it.
func selectFirstConversation(m *Model) (*Model, uint64) {
	m = sendKey(m, keys.Enter)
	return m, m.core.Navigator.Token()
}
