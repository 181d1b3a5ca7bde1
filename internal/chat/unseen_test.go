package chat

import (
	"testing"
	"time"
)

func TestUnseen_ServerCountWithoutTimeline(t *testing.T) {
	conv := Conversation{ID: "c1", UnseenCount: 4}

	if got := Unseen("u1", conv, nil); got != 4 {
		t.Errorf("Without a timeline the server count is used, got %d", got)
	}
}

func TestUnseen_TimelineAuthoritative(t *testing.T) {
	conv := Conversation{ID: "c1", UnseenCount: 7} // server count is stale

	tl := NewTimeline("u1")
	tl.Reset("c1")
	at := time.Now()
	tl.Replace([]Message{
		{ID: "m1", SenderID: "u2", Seen: true, CreatedAt: at},
		{ID: "m2", SenderID: "u2", Seen: false, CreatedAt: at.Add(time.Second)},
		{ID: "m3", SenderID: "u1", Seen: false, CreatedAt: at.Add(2 * time.Second)}, // own message
	})

	if got := Unseen("u1", conv, tl); got != 1 {
		t.Errorf("Loaded timeline is authoritative: expected 1, got %d", got)
	}
}

func TestUnseen_ZeroWhenAllSeen(t *testing.T) {
	conv := Conversation{ID: "c1", UnseenCount: 9}

	tl := NewTimeline("u1")
	tl.Reset("c1")
	at := time.Now()
	tl.Replace([]Message{
		{ID: "m1", SenderID: "u2", Seen: true, CreatedAt: at},
		{ID: "m2", SenderID: "u2", Seen: true, CreatedAt: at.Add(time.Second)},
	})

	if got := Unseen("u1", conv, tl); got != 0 {
		t.Errorf("Expected 0 regardless of server count, got %d", got)
	}
}

func TestUnseen_TimelineForOtherConversationIgnored(t *testing.T) {
	conv := Conversation{ID: "c1", UnseenCount: 2}

	tl := NewTimeline("u1")
	tl.Reset("c2") // loaded for a different conversation
	tl.Replace([]Message{{ID: "m1", SenderID: "u2", CreatedAt: time.Now()}})

	if got := Unseen("u1", conv, tl); got != 2 {
		t.Errorf("A timeline for another conversation must not override, got %d", got)
	}
}

func TestCore_Snapshot(t *testing.T) {
	core := NewCore("u1")
	core.Roster.SetAll([]RawUser{{ID: "u2", DisplayName: "Bob"}})
	core.Directory.Refresh([]RawConversation{
		{ID: "c1", ParticipantIDs: []string{"u1", "u2"}, UnseenCount: 5, UpdatedAt: time.Now()},
	})

	token, _, _ := core.Navigator.Select("c1", "u2")
	core.Navigator.Apply(token, []Message{
		{ID: "m1", ConversationID: "c1", SenderID: "u2", Seen: true, CreatedAt: time.Now()},
	})

	snap := core.Snapshot()
	if len(snap.Conversations) != 1 {
		t.Fatalf("Expected 1 conversation, got %d", len(snap.Conversations))
	}
	if snap.Conversations[0].UnseenCount != 0 {
		t.Errorf("Snapshot should recompute unseen from the loaded timeline, got %d", snap.Conversations[0].UnseenCount)
	}
	if snap.Session.Phase != PhaseReady {
		t.Errorf("Expected PhaseReady, got %v", snap.Session.Phase)
	}
	if len(snap.Timeline) != 1 {
		t.Errorf("Expected 1 timeline message, got %d", len(snap.Timeline))
	}

	// Snapshot is a copy: mutating it must not touch core state
	snap.Timeline[0].Text = "mutated"
	if msgs := core.Timeline.Messages(); msgs[0].Text == "mutated" {
		t.Error("Snapshot mutation leaked into core state")
	}
}
