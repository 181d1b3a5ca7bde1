package app

import (
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/ui"
)

func TestNew_DefaultThemeInitialization(t *testing.T) {
	defer ui.ApplyTheme(ui.DefaultTheme)

	m, _ := testModel(testConfig())

	if m == nil {
		t.Fatal("New returned nil")
	}
	if ui.CurrentTheme().Name != "Dark Purple" {
		t.Errorf("Expected default theme, got %s", ui.CurrentTheme().Name)
	}
}

func TestNew_SavedThemeInitialization(t *testing.T) {
	defer ui.ApplyTheme(ui.DefaultTheme)

	cfg := testConfig()
	cfg.SetTheme(string(ui.ThemeNord))

	testModel(cfg)

	if ui.CurrentTheme().Name != "Nord" {
		t.Errorf("Expected Nord theme, got %s", ui.CurrentTheme().Name)
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := testModel(testConfig())

	if m.width != 120 || m.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", m.width, m.height)
	}
	if m.sidebar.Width() == 0 {
		t.Error("Sidebar should have a width after resize")
	}
}

func TestUpdate_ConversationsRefresh(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	if m.core.Directory.Len() != 2 {
		t.Fatalf("Expected 2 conversations, got %d", m.core.Directory.Len())
	}

	// conv-a is newer, so it sorts first
	c, ok := m.sidebar.Selected()
	if !ok || c.ID != "conv-a" {
		t.Errorf("Expected conv-a first in sidebar, got %q", c.ID)
	}
	if c.Other.DisplayName != "Ada Lovelace" {
		t.Errorf("Roster name should resolve, got %q", c.Other.DisplayName)
	}
}

func TestFocus_TabTogglesOnlyWithConversation(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	// No active conversation: tab keeps the sidebar
	m = sendKey(m, "tab")
	if m.focus != FocusSidebar {
		t.Error("Tab should not move focus to an empty chat panel")
	}

	m, token := selectFirstConversation(m)
	m = deliver(m, timelineMsg{token: token, conversationID: "conv-a", page: &chat.MessagePage{}})

	if m.focus != FocusChat {
		t.Error("Opening a conversation should focus the chat panel")
	}

	m = sendKey(m, "tab")
	if m.focus != FocusSidebar {
		t.Error("Tab should return to the sidebar")
	}
	m = sendKey(m, "tab")
	if m.focus != FocusChat {
		t.Error("Tab should toggle back to chat")
	}
}

func TestSelect_LoadsTimeline(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m, cmd := sendKeyCmd(m, "enter")
	if cmd == nil {
		t.Fatal("Selecting a conversation should issue a fetch")
	}

	session := m.core.Navigator.Session()
	if session.ActiveConversationID != "conv-a" {
		t.Errorf("Expected conv-a active, got %q", session.ActiveConversationID)
	}
	if session.Phase != chat.PhaseLoading {
		t.Errorf("Expected loading phase, got %v", session.Phase)
	}

	m = deliver(m, timelineMsg{
		token:          m.core.Navigator.Token(),
		conversationID: "conv-a",
		page: &chat.MessagePage{
			Messages: []chat.RawMessage{
				{ID: "m1", ConversationID: "conv-a", SenderID: "user-ada", Kind: chat.MessageText, Text: "hello from ada"},
			},
			OtherParticipant: chat.RawUser{ID: "user-ada", DisplayName: "Ada Lovelace"},
		},
	})

	session = m.core.Navigator.Session()
	if session.Phase != chat.PhaseReady {
		t.Errorf("Expected ready phase, got %v", session.Phase)
	}
	if m.core.Timeline.Len() != 1 {
		t.Errorf("Expected 1 message, got %d", m.core.Timeline.Len())
	}
}

func TestSelect_StaleFetchDiscarded(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	// Open conversation A
	m, tokenA := selectFirstConversation(m)

	// Jump back and immediately open conversation B
	m = sendKey(m, "esc")
	m = sendKey(m, "down")
	m = sendKey(m, "enter")
	tokenB := m.core.Navigator.Token()

	if tokenB <= tokenA {
		t.Fatalf("Token must increase across selections: %d then %d", tokenA, tokenB)
	}

	// A's fetch completes late; it must be discarded
	m = deliver(m, timelineMsg{
		token:          tokenA,
		conversationID: "conv-a",
		page: &chat.MessagePage{Messages: []chat.RawMessage{
			{ID: "ma", ConversationID: "conv-a", SenderID: "user-ada", Kind: chat.MessageText, Text: "stale content from A"},
		}},
	})

	if m.core.Navigator.Session().Phase != chat.PhaseLoading {
		t.Error("Stale result must not resolve B's load")
	}
	if m.core.Timeline.Len() != 0 {
		t.Error("Stale messages must not land in B's timeline")
	}

	// B's fetch completes
	m = deliver(m, timelineMsg{
		token:          tokenB,
		conversationID: "conv-b",
		page: &chat.MessagePage{Messages: []chat.RawMessage{
			{ID: "mb", ConversationID: "conv-b", SenderID: "user-alan", Kind: chat.MessageText, Text: "content from B"},
		}},
	})

	if m.core.Navigator.Session().Phase != chat.PhaseReady {
		t.Error("B's result should resolve the load")
	}
	msgs := m.core.Timeline.Messages()
	if len(msgs) != 1 || msgs[0].ID != "mb" {
		t.Errorf("Timeline should hold B's messages only, got %+v", msgs)
	}

	view := stripANSI(m.RenderToString())
	if strings.Contains(view, "stale content from A") {
		t.Error("Rendered view must not show A's stale messages")
	}
	if !strings.Contains(view, "content from B") {
		t.Error("Rendered view should show B's messages")
	}
}

func TestSelect_FailedFetchShowsError(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m, token := selectFirstConversation(m)
	m = deliver(m, timelineMsg{token: token, conversationID: "conv-a", err: errFake})

	if m.core.Navigator.Session().Phase != chat.PhaseErrored {
		t.Errorf("Expected errored phase, got %v", m.core.Navigator.Session().Phase)
	}

	view := stripANSI(m.RenderToString())
	if !strings.Contains(view, "Couldn't load messages") {
		t.Error("Error state should render in the chat panel")
	}
}

func TestReselect_SameConversationIsNoop(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m, token := selectFirstConversation(m)
	m = deliver(m, timelineMsg{token: token, conversationID: "conv-a", page: &chat.MessagePage{
		Messages: []chat.RawMessage{{ID: "m1", ConversationID: "conv-a", SenderID: "user-ada", Kind: chat.MessageText, Text: "hi"}},
	}})

	m = sendKey(m, "esc")
	m, cmd := sendKeyCmd(m, "enter") // same conversation

	if cmd != nil {
		t.Error("Re-selecting the loaded conversation should not refetch")
	}
	if m.core.Navigator.Token() != token {
		t.Error("Token must not advance on a no-op select")
	}
	if m.core.Timeline.Len() != 1 {
		t.Error("Timeline must survive a no-op select")
	}
}
