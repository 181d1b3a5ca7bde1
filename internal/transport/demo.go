package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/errors"
)

// DemoUserID is the identity the demo transport assumes for the local user.
const DemoUserID = "demo-me"

// Demo is a stateful in-memory transport with canned data, backing the
// --demo flag so the app can be explored without a server.
type Demo struct {
	mu       sync.Mutex
	users    []chat.RawUser
	chats    []chat.RawConversation
	messages map[string][]chat.RawMessage
	nextID   int

	// Simulated peer activity: after the local user sends, the other side
	// "types" for a bit and then a canned reply lands on the next fetch.
	typingUntil map[string]time.Time
	replyAt     map[string]time.Time
}

// NewDemo seeds a demo transport with a few users and conversations.
func NewDemo() *Demo {
	now := time.Now()
	d := &Demo{
		users: []chat.RawUser{
			{ID: "demo-ada", DisplayName: "Ada Lovelace", Email: "ada@example.com"},
			{ID: "demo-alan", DisplayName: "Alan Turing", Email: "alan@example.com"},
			{ID: "demo-grace", DisplayName: "Grace Hopper", Email: "grace@example.com"},
		},
		messages:    make(map[string][]chat.RawMessage),
		typingUntil: make(map[string]time.Time),
		replyAt:     make(map[string]time.Time),
	}

	d.chats = []chat.RawConversation{
		{
			ID:             "demo-c1",
			ParticipantIDs: []string{DemoUserID, "demo-ada"},
			LatestMessage:  &chat.MessagePreview{Text: "The engine weaves algebraic patterns.", SenderID: "demo-ada", Timestamp: now.Add(-10 * time.Minute)},
			UnseenCount:    1,
			CreatedAt:      now.Add(-48 * time.Hour),
			UpdatedAt:      now.Add(-10 * time.Minute),
		},
		{
			ID:             "demo-c2",
			ParticipantIDs: []string{DemoUserID, "demo-alan"},
			LatestMessage:  &chat.MessagePreview{Text: "Can machines think?", SenderID: "demo-alan", Timestamp: now.Add(-3 * time.Hour)},
			CreatedAt:      now.Add(-72 * time.Hour),
			UpdatedAt:      now.Add(-3 * time.Hour),
		},
	}

	d.messages["demo-c1"] = []chat.RawMessage{
		{ID: "demo-m1", ConversationID: "demo-c1", SenderID: DemoUserID, Kind: chat.MessageText, Text: "How goes the Analytical Engine?", CreatedAt: now.Add(-20 * time.Minute), Seen: true, SeenAt: now.Add(-18 * time.Minute)},
		{ID: "demo-m2", ConversationID: "demo-c1", SenderID: "demo-ada", Kind: chat.MessageText, Text: "The engine weaves algebraic patterns.", CreatedAt: now.Add(-10 * time.Minute)},
	}
	d.messages["demo-c2"] = []chat.RawMessage{
		{ID: "demo-m3", ConversationID: "demo-c2", SenderID: "demo-alan", Kind: chat.MessageText, Text: "Can machines think?", CreatedAt: now.Add(-3 * time.Hour), Seen: true, SeenAt: now.Add(-2 * time.Hour)},
	}
	return d
}

// FetchConversations implements Transport.
func (d *Demo) FetchConversations(ctx context.Context, userID string) ([]chat.RawConversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]chat.RawConversation, len(d.chats))
	copy(out, d.chats)
	return out, nil
}

// FetchMessages implements Transport. Fetching marks incoming messages seen,
// matching the real server's behavior.
func (d *Demo) FetchMessages(ctx context.Context, conversationID string) (*chat.MessagePage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	msgs, ok := d.messages[conversationID]
	if !ok {
		return nil, errors.FetchMessagesFailed(conversationID, fmt.Errorf("no such conversation"))
	}

	now := time.Now()
	d.deliverPendingReply(conversationID, now)
	msgs = d.messages[conversationID]
	for i := range msgs {
		if msgs[i].SenderID != DemoUserID && !msgs[i].Seen {
			msgs[i].Seen = true
			msgs[i].SeenAt = now
		}
	}
	for i := range d.chats {
		if d.chats[i].ID == conversationID {
			d.chats[i].UnseenCount = 0
		}
	}

	page := &chat.MessagePage{Messages: make([]chat.RawMessage, len(msgs))}
	copy(page.Messages, msgs)

	if conv := d.findChat(conversationID); conv != nil {
		for _, id := range conv.ParticipantIDs {
			if id != DemoUserID {
				page.OtherParticipant = d.findUser(id)
			}
		}
	}
	return page, nil
}

// CreateConversation implements Transport.
func (d *Demo) CreateConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.chats {
		for _, id := range c.ParticipantIDs {
			if id == otherUserID {
				return c.ID, nil
			}
		}
	}

	d.nextID++
	id := fmt.Sprintf("demo-c%d", d.nextID+2)
	now := time.Now()
	d.chats = append(d.chats, chat.RawConversation{
		ID:             id,
		ParticipantIDs: []string{userID, otherUserID},
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	d.messages[id] = nil
	return id, nil
}

// SendMessage implements Transport.
func (d *Demo) SendMessage(ctx context.Context, conversationID, text string, image []byte) (*chat.RawMessage, error) {
	if text == "" && len(image) == 0 {
		return nil, errors.EmptyMessage()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	now := time.Now()
	msg := chat.RawMessage{
		ID:             fmt.Sprintf("demo-m%d", d.nextID+10),
		ConversationID: conversationID,
		SenderID:       DemoUserID,
		Kind:           chat.MessageText,
		Text:           text,
		CreatedAt:      now,
	}
	if len(image) > 0 {
		msg.Kind = chat.MessageImage
		msg.Image = &chat.Image{URL: "demo://image", StorageID: msg.ID}
	}
	d.messages[conversationID] = append(d.messages[conversationID], msg)

	for i := range d.chats {
		if d.chats[i].ID == conversationID {
			d.chats[i].UpdatedAt = now
			d.chats[i].LatestMessage = &chat.MessagePreview{Text: previewText(msg), SenderID: DemoUserID, Timestamp: now}
		}
	}

	d.typingUntil[conversationID] = now.Add(5 * time.Second)
	d.replyAt[conversationID] = now.Add(7 * time.Second)
	return &msg, nil
}

// PollTyping implements TypingFeed with the simulated peer.
func (d *Demo) PollTyping(ctx context.Context, conversationID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Now().Before(d.typingUntil[conversationID]), nil
}

// deliverPendingReply appends the canned peer reply once its time has come.
// Caller holds d.mu.
func (d *Demo) deliverPendingReply(conversationID string, now time.Time) {
	due, ok := d.replyAt[conversationID]
	if !ok || now.Before(due) {
		return
	}
	delete(d.replyAt, conversationID)
	delete(d.typingUntil, conversationID)

	conv := d.findChat(conversationID)
	if conv == nil {
		return
	}
	sender := ""
	for _, id := range conv.ParticipantIDs {
		if id != DemoUserID {
			sender = id
		}
	}
	if sender == "" {
		return
	}

	d.nextID++
	reply := chat.RawMessage{
		ID:             fmt.Sprintf("demo-m%d", d.nextID+10),
		ConversationID: conversationID,
		SenderID:       sender,
		Kind:           chat.MessageText,
		Text:           "Interesting. Tell me more.",
		CreatedAt:      now,
	}
	d.messages[conversationID] = append(d.messages[conversationID], reply)
	conv.UpdatedAt = now
	conv.LatestMessage = &chat.MessagePreview{Text: reply.Text, SenderID: sender, Timestamp: now}
}

// AnnounceTyping implements Transport.
func (d *Demo) AnnounceTyping(conversationID string, active bool) {}

// FetchRoster implements Transport.
func (d *Demo) FetchRoster(ctx context.Context) ([]chat.RawUser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]chat.RawUser, len(d.users))
	copy(out, d.users)
	return out, nil
}

func (d *Demo) findChat(id string) *chat.RawConversation {
	for i := range d.chats {
		if d.chats[i].ID == id {
			return &d.chats[i]
		}
	}
	return nil
}

func (d *Demo) findUser(id string) chat.RawUser {
	for _, u := range d.users {
		if u.ID == id {
			return u
		}
	}
	return chat.RawUser{ID: id}
}

func previewText(m chat.RawMessage) string {
	if m.Kind == chat.MessageImage {
		return "[Image]"
	}
	return m.Text
}
