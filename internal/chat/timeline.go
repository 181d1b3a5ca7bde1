package chat

import (
	"sort"
	"time"
)

// ReconcileTolerance is the window within which an optimistic message and a
// confirmed record with matching sender and content are treated as the same
// send. Used only when the server does not echo the temporary id.
const ReconcileTolerance = 5 * time.Second

// Timeline owns the ordered, id-unique message sequence for exactly one
// conversation at a time. It is replaced wholesale when the active
// conversation changes.
type Timeline struct {
	currentUserID  string
	conversationID string
	messages       []Message

	now func() time.Time
}

// NewTimeline returns an empty timeline for the given user.
func NewTimeline(currentUserID string) *Timeline {
	return &Timeline{
		currentUserID: currentUserID,
		now:           time.Now,
	}
}

// Reset clears the timeline and binds it to a new conversation.
func (t *Timeline) Reset(conversationID string) {
	t.conversationID = conversationID
	t.messages = nil
}

// ConversationID returns the conversation this timeline is bound to.
func (t *Timeline) ConversationID() string {
	return t.conversationID
}

// Replace installs a fetched message list, deduplicating by id (stable,
// first occurrence wins) even if the server returns duplicates, then sorting
// by CreatedAt ascending.
//
// Pending local sends survive the install: the server cannot know about an
// in-flight send yet, and a failed send must stay visible for retry. A
// fetched record that matches a pending send supersedes it; everything else
// pending is carried over.
func (t *Timeline) Replace(msgs []Message) {
	seen := make(map[string]bool, len(msgs))
	next := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		next = append(next, m)
	}

	for _, m := range t.messages {
		if !m.Pending || seen[m.ID] {
			continue
		}
		if !m.Failed && confirmedBy(next, m) {
			continue
		}
		next = append(next, m)
	}

	sortMessages(next)
	t.messages = next
}

// confirmedBy reports whether any fetched record accounts for the given
// pending send.
func confirmedBy(fetched []Message, pending Message) bool {
	for _, f := range fetched {
		if sameSend(pending, f) {
			return true
		}
	}
	return false
}

// AppendOptimistic inserts a temporary-id message at the tail, returning it
// for immediate rendering before the server confirms the send.
func (t *Timeline) AppendOptimistic(text string, image *Image) Message {
	kind := MessageText
	if image != nil {
		kind = MessageImage
	}
	msg := Message{
		ID:             NewTempID(),
		ConversationID: t.conversationID,
		SenderID:       t.currentUserID,
		Kind:           kind,
		Text:           text,
		Image:          image,
		CreatedAt:      t.now(),
		Pending:        true,
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Reconcile merges a confirmed server record into the timeline. Idempotent
// for ids already present. A pending optimistic message from the same sender
// with matching content and a CreatedAt within ReconcileTolerance is replaced
// in place rather than duplicated; otherwise the record is appended and the
// timeline re-sorted.
func (t *Timeline) Reconcile(confirmed Message) {
	confirmed.Pending = false
	confirmed.Failed = false

	for _, m := range t.messages {
		if m.ID == confirmed.ID {
			return
		}
	}

	// In-place replacement keeps the optimistic position even when the
	// confirmed CreatedAt would sort elsewhere; with two sends in flight the
	// list briefly shows send order rather than server order.
	for i, m := range t.messages {
		if m.Pending && sameSend(m, confirmed) {
			t.messages[i] = confirmed
			return
		}
	}

	t.messages = append(t.messages, confirmed)
	sortMessages(t.messages)
}

// MarkSeen sets seen state for a message without reordering.
func (t *Timeline) MarkSeen(messageID string, seenAt time.Time) bool {
	for i := range t.messages {
		if t.messages[i].ID == messageID {
			t.messages[i].Seen = true
			t.messages[i].SeenAt = seenAt
			return true
		}
	}
	return false
}

// MarkFailed flags a pending message whose send failed. The message stays
// visible so the user can see the failure and retry.
func (t *Timeline) MarkFailed(tempID string) bool {
	for i := range t.messages {
		if t.messages[i].ID == tempID && t.messages[i].Pending {
			t.messages[i].Failed = true
			return true
		}
	}
	return false
}

// Remove drops a message by id, used when a failed send is discarded.
func (t *Timeline) Remove(messageID string) bool {
	for i := range t.messages {
		if t.messages[i].ID == messageID {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Messages returns a copy of the ordered timeline.
func (t *Timeline) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message, if any.
func (t *Timeline) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Len returns the number of messages.
func (t *Timeline) Len() int {
	return len(t.messages)
}

// sameSend reports whether a pending optimistic message and a confirmed
// record describe the same send: same sender, same content, created within
// the tolerance window.
func sameSend(pending, confirmed Message) bool {
	if pending.SenderID != confirmed.SenderID || pending.Kind != confirmed.Kind {
		return false
	}
	if pending.Kind == MessageText && pending.Text != confirmed.Text {
		return false
	}
	delta := confirmed.CreatedAt.Sub(pending.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta <= ReconcileTolerance
}

// sortMessages orders by CreatedAt ascending, ties by id for determinism.
func sortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
}
