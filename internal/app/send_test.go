package app

import (
	"strings"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/transport"
)

// openConversation drives the model into a ready conversation A.
func openConversation(t *testing.T, m *Model) *Model {
	t.Helper()
	m = loadDirectory(m)
	m, token := selectFirstConversation(m)
	m = deliver(m, timelineMsg{token: token, conversationID: "conv-a", page: &chat.MessagePage{
		OtherParticipant: chat.RawUser{ID: "user-ada", DisplayName: "Ada Lovelace"},
	}})
	if m.core.Navigator.Session().Phase != chat.PhaseReady {
		t.Fatal("conversation should be ready")
	}
	return m
}

func TestSend_EmptyMessageRejectedBeforeTransport(t *testing.T) {
	m, mock := testModel(testConfig())
	m = openConversation(t, m)

	m, _ = sendKeyCmd(m, "enter")

	if m.core.Timeline.Len() != 0 {
		t.Error("Empty send must not create an optimistic message")
	}
	if mock.CallCount("SendMessage") != 0 {
		t.Error("Empty send must not reach the transport")
	}
	if !m.footer.HasFlash() {
		t.Error("Empty send should flash a validation warning")
	}
}

func TestSend_OptimisticThenConfirmed(t *testing.T) {
	m, mock := testModel(testConfig())
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return &chat.RawMessage{
			ID: "srv-9", ConversationID: conversationID, SenderID: "user-me",
			Kind: chat.MessageText, Text: text, CreatedAt: time.Now(),
		}, nil
	}
	m = openConversation(t, m)

	m = typeText(m, "hello ada")
	m, cmd := sendKeyCmd(m, "enter")
	if cmd == nil {
		t.Fatal("Send should issue a transport command")
	}

	msgs := m.core.Timeline.Messages()
	if len(msgs) != 1 || !msgs[0].Pending {
		t.Fatalf("Expected one pending optimistic message, got %+v", msgs)
	}
	if m.chat.InputValue() != "" {
		t.Error("Composer should clear on send")
	}

	// Run the send command and feed its completion back in
	m = deliver(m, cmd())

	msgs = m.core.Timeline.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Confirmation must replace the optimistic message, got %d", len(msgs))
	}
	if msgs[0].ID != "srv-9" || msgs[0].Pending {
		t.Errorf("Expected confirmed srv-9, got %+v", msgs[0])
	}
	if mock.CallCount("SendMessage") != 1 {
		t.Errorf("Expected exactly one transport send, got %d", mock.CallCount("SendMessage"))
	}
}

func TestSend_FailureMarksFailedAndRetries(t *testing.T) {
	m, mock := testModel(testConfig())
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return nil, errFake
	}
	m = openConversation(t, m)

	m = typeText(m, "doomed")
	m, cmd := sendKeyCmd(m, "enter")
	m = deliver(m, cmd())

	msgs := m.core.Timeline.Messages()
	if len(msgs) != 1 || !msgs[0].Failed {
		t.Fatalf("Expected a failed message, got %+v", msgs)
	}
	if !m.footer.HasFlash() {
		t.Error("Failed send should flash an error")
	}

	view := stripANSI(m.RenderToString())
	if !strings.Contains(view, "doomed") {
		t.Error("Failed message text must stay visible")
	}

	// Retry succeeds this time
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return &chat.RawMessage{
			ID: "srv-retry", ConversationID: conversationID, SenderID: "user-me",
			Kind: chat.MessageText, Text: text, CreatedAt: time.Now(),
		}, nil
	}
	m, cmd = sendKeyCmd(m, "ctrl+r")
	if cmd == nil {
		t.Fatal("Retry should issue a transport command")
	}
	m = deliver(m, cmd())

	msgs = m.core.Timeline.Messages()
	if len(msgs) != 1 || msgs[0].ID != "srv-retry" || msgs[0].Failed {
		t.Errorf("Expected the retried message confirmed, got %+v", msgs)
	}
}

func TestRefresh_KeepsFailedSendVisible(t *testing.T) {
	m, mock := testModel(testConfig())
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return nil, errFake
	}
	m = openConversation(t, m)

	m = typeText(m, "doomed")
	m, cmd := sendKeyCmd(m, "enter")
	m = deliver(m, cmd())

	if msgs := m.core.Timeline.Messages(); len(msgs) != 1 || !msgs[0].Failed {
		t.Fatalf("Expected a failed message, got %+v", msgs)
	}

	// The periodic refresh lands with the live token; the server has never
	// heard of the failed send.
	m = deliver(m, timelineMsg{
		token:          m.core.Navigator.Token(),
		conversationID: "conv-a",
		page: &chat.MessagePage{Messages: []chat.RawMessage{
			{ID: "m1", ConversationID: "conv-a", SenderID: "user-ada", Kind: chat.MessageText, Text: "hello from ada"},
		}},
	})

	msgs := m.core.Timeline.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Refresh must not drop the failed send, got %+v", msgs)
	}
	if !msgs[1].Failed {
		t.Errorf("Failed flag must survive the refresh, got %+v", msgs[1])
	}

	view := stripANSI(m.RenderToString())
	if !strings.Contains(view, "doomed") {
		t.Error("Failed message must stay on screen for retry")
	}

	// And the retry affordance still works afterwards
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return &chat.RawMessage{
			ID: "srv-late", ConversationID: conversationID, SenderID: "user-me",
			Kind: chat.MessageText, Text: text, CreatedAt: time.Now(),
		}, nil
	}
	m, cmd = sendKeyCmd(m, "ctrl+r")
	if cmd == nil {
		t.Fatal("Retry should issue a transport command")
	}
	m = deliver(m, cmd())

	msgs = m.core.Timeline.Messages()
	if len(msgs) != 2 || msgs[1].ID != "srv-late" || msgs[1].Failed {
		t.Errorf("Expected the retried message confirmed, got %+v", msgs)
	}
}

func TestTyping_AnnouncedOnceThenStoppedOnSend(t *testing.T) {
	m, mock := testModel(testConfig())
	mock.SendFn = func(conversationID, text string, image []byte) (*chat.RawMessage, error) {
		return &chat.RawMessage{
			ID: "srv-1", ConversationID: conversationID, SenderID: "user-me",
			Kind: chat.MessageText, Text: text, CreatedAt: time.Now(),
		}, nil
	}
	m = openConversation(t, m)

	m = typeText(m, "abc")

	var starts int
	for _, call := range mock.TypingCalls {
		if call.Active {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("Typing burst should announce once, got %d", starts)
	}

	m, _ = sendKeyCmd(m, "enter")

	last, ok := mock.LastTyping()
	if !ok || last.Active {
		t.Error("Send should announce typing stop")
	}
	if last.ConversationID != "conv-a" {
		t.Errorf("Stop signal addressed to %q, want conv-a", last.ConversationID)
	}
}

func TestTyping_ExpiresOnTick(t *testing.T) {
	m, mock := testModel(testConfig())
	m = openConversation(t, m)

	m.core.Composer.SetTypingExpiry(-time.Second) // already past deadline
	m = typeText(m, "x")
	m = deliver(m, TypingTickMsg(time.Now()))

	last, ok := mock.LastTyping()
	if !ok || last.Active {
		t.Error("Tick past the deadline should announce typing stop")
	}
}

func TestPeerTyping_Indicators(t *testing.T) {
	m, _ := testModel(testConfig())
	m = openConversation(t, m)

	m = deliver(m, peerTypingMsg{conversationID: "conv-a", active: true})

	view := stripANSI(m.RenderToString())
	if !strings.Contains(view, "typing") {
		t.Error("Peer typing should render an indicator")
	}

	// Expiry clears the indicator
	m.peerTyping["conv-a"] = time.Now().Add(-time.Second)
	m = deliver(m, TypingTickMsg(time.Now()))

	view = stripANSI(m.RenderToString())
	if strings.Contains(view, "is typing") {
		t.Error("Expired peer typing should clear")
	}
}

func TestNewChatOverlay_CreatesConversation(t *testing.T) {
	m, mock := testModel(testConfig())
	mock.CreateFn = func(userID, otherUserID string) (string, error) {
		return "conv-new", nil
	}
	m = loadDirectory(m)

	m = sendKey(m, "ctrl+n")
	if !m.sidebar.OverlayOpen() {
		t.Fatal("ctrl+n should open the new-chat overlay")
	}

	// Pick Grace Hopper, who has no conversation yet
	m = sendKey(m, "down")
	m = sendKey(m, "down")
	m, cmd := sendKeyCmd(m, "enter")

	if m.sidebar.OverlayOpen() {
		t.Error("Overlay should close on selection")
	}
	if cmd == nil {
		t.Fatal("Starting a chat should issue commands")
	}

	conv, ok := m.core.Directory.FindByOtherUser("user-grace")
	if !ok || !conv.IsPlaceholder() {
		t.Fatalf("Expected an optimistic placeholder, got %+v", conv)
	}
	if m.core.Navigator.Session().ActiveUserID != "user-grace" {
		t.Error("Placeholder conversation should be selected")
	}
	if m.core.Navigator.Session().Phase != chat.PhaseReady {
		t.Error("Placeholder has nothing to fetch; it should be ready")
	}

	// Confirmation swaps the selection to the server id
	m = deliver(m, chatCreatedMsg{otherUserID: "user-grace", conversationID: "conv-new"})

	if m.core.Navigator.Session().ActiveConversationID != "conv-new" {
		t.Errorf("Expected conv-new active, got %q", m.core.Navigator.Session().ActiveConversationID)
	}
}

func TestNewChatOverlay_ExistingConversationNotDuplicated(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m = sendKey(m, "ctrl+n")
	m, _ = sendKeyCmd(m, "enter") // Ada, who already has conv-a

	if m.core.Directory.Len() != 2 {
		t.Errorf("Picking an existing partner must not add a conversation, got %d", m.core.Directory.Len())
	}
	if m.core.Navigator.Session().ActiveConversationID != "conv-a" {
		t.Error("Existing conversation should be selected")
	}
}

func TestSearch_FiltersSidebar(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m = sendKey(m, "ctrl+f")
	m = typeText(m, "alan")

	c, ok := m.sidebar.Selected()
	if !ok || c.ID != "conv-b" {
		t.Errorf("Search should narrow to Alan's conversation, got %q", c.ID)
	}

	m = sendKey(m, "esc")
	view := stripANSI(m.RenderToString())
	if !strings.Contains(view, "Ada Lovelace") {
		t.Error("Cancelling search should restore the full list")
	}
}

func TestSend_ToPlaceholderDeferred(t *testing.T) {
	m, _ := testModel(testConfig())
	m = loadDirectory(m)

	m = sendKey(m, "ctrl+n")
	m = sendKey(m, "down")
	m = sendKey(m, "down")
	m, _ = sendKeyCmd(m, "enter") // Grace, placeholder created

	m = typeText(m, "too soon")
	m, _ = sendKeyCmd(m, "enter")

	if m.core.Timeline.Len() != 0 {
		t.Error("Sends against a placeholder must wait for the server id")
	}
	if !m.footer.HasFlash() {
		t.Error("Deferred send should flash a notice")
	}
}

var _ transport.Transport = (*transport.Mock)(nil)
